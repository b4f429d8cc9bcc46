package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/utils"
)

// UserRepo provides CRUD operations for the 'users' table. Usernames are
// the primary key and are normalized to lower case on write and lookup.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a freshly hashed password.
func (r *UserRepo) Create(ctx context.Context, username, password, fullName, role, email string, cost int) error {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, full_name, role, email) VALUES (?,?,?,?,?)",
		username, hash, fullName, role, email)
	if err != nil {
		if isDuplicate(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, password_hash, full_name, role, email FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.Username, &u.PasswordHash, &u.FullName, &u.Role, &u.Email)
	return u, err
}

// List returns all users ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT username, password_hash, full_name, role, email FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.FullName, &u.Role, &u.Email); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update changes the provided fields only; nil pointers leave the column
// untouched. Returns sql.ErrNoRows when the user does not exist.
func (r *UserRepo) Update(ctx context.Context, username string, fullName, email, role *string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	parts := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if fullName != nil {
		parts = append(parts, "full_name=?")
		args = append(args, *fullName)
	}
	if email != nil {
		parts = append(parts, "email=?")
		args = append(args, *email)
	}
	if role != nil {
		parts = append(parts, "role=?")
		args = append(args, *role)
	}
	if len(parts) == 0 {
		return nil
	}
	args = append(args, username)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(parts, ", ")+" WHERE username=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePassword rehashes and stores a new password for the user.
func (r *UserRepo) UpdatePassword(ctx context.Context, username, newPassword string, cost int) error {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(newPassword, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE username=?", hash, username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user account. Returns sql.ErrNoRows when absent.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE username=?", username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// isDuplicate reports whether err is a uniqueness violation on either
// backend (MySQL error 1062, sqlite "UNIQUE constraint failed").
func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
