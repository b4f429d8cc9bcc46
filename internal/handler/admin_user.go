package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/config"
	"github.com/iliyamo/smart-parking/internal/repository"
)

// AdminUserHandler implements the admin-only user management endpoints.
type AdminUserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAdminUserHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AdminUserHandler {
	return &AdminUserHandler{Cfg: cfg, Users: u, Tokens: t}
}

type createUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // admin | user
	Email    string `json:"email"`
}

type updateUserReq struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

type resetPasswordReq struct {
	NewPassword string `json:"new_password"`
}

func normalizeRole(role string) string {
	if strings.ToLower(strings.TrimSpace(role)) == "admin" {
		return "admin"
	}
	return "user"
}

// List returns every account without password hashes.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{Username: u.Username, FullName: u.FullName, Role: u.Role, Email: u.Email})
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds an account with an explicit role.
func (h *AdminUserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	role := normalizeRole(req.Role)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Create(ctx, req.Username, req.Password, req.FullName, role, req.Email, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, userPart{Username: req.Username, FullName: req.FullName, Role: role, Email: req.Email})
}

// Get returns one account.
func (h *AdminUserHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userPart{Username: u.Username, FullName: u.FullName, Role: u.Role, Email: u.Email})
}

// Update patches profile fields and optionally the role. Demoting the
// last admin is refused so the system always keeps one.
func (h *AdminUserHandler) Update(c echo.Context) error {
	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Role != nil {
		r := normalizeRole(*req.Role)
		req.Role = &r
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.Role != nil && *req.Role != "admin" {
		last, err := h.isLastAdmin(ctx, username)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if last {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot demote the last admin"})
		}
	}

	if err := h.Users.Update(ctx, username, req.FullName, req.Email, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword stores a new password and revokes the user's sessions.
func (h *AdminUserHandler) ResetPassword(c echo.Context) error {
	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, username, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, username)
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an account. Admins cannot delete themselves or the last
// remaining admin.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	if username == currentUsername(c) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	last, err := h.isLastAdmin(ctx, username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if last {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete the last admin"})
	}

	if err := h.Users.Delete(ctx, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, username)
	return c.NoContent(http.StatusNoContent)
}

// isLastAdmin reports whether username names an admin account and no
// other admin exists.
func (h *AdminUserHandler) isLastAdmin(ctx context.Context, username string) (bool, error) {
	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if u.Role != "admin" {
		return false, nil
	}
	users, err := h.Users.List(ctx)
	if err != nil {
		return false, err
	}
	for _, other := range users {
		if other.Role == "admin" && other.Username != u.Username {
			return false, nil
		}
	}
	return true, nil
}
