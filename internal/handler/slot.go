package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
)

// SlotHandler implements slot management. Reads are open to every
// authenticated role; writes are admin-only via the router.
type SlotHandler struct {
	Slots *repository.SlotRepo
}

func NewSlotHandler(s *repository.SlotRepo) *SlotHandler { return &SlotHandler{Slots: s} }

type createSlotReq struct {
	Name        string  `json:"name"`
	TypeAllowed string  `json:"type_allowed"` // Car | Motorcycle | Both
	HourlyRate  float64 `json:"hourly_rate"`
}

type updateSlotReq struct {
	Name        *string  `json:"name"`
	TypeAllowed *string  `json:"type_allowed"`
	Status      *string  `json:"status"`
	HourlyRate  *float64 `json:"hourly_rate"`
}

func validTypeAllowed(t string) bool {
	switch t {
	case model.TypeCar, model.TypeMotorcycle, model.TypeBoth:
		return true
	}
	return false
}

// Create adds a slot; new slots always start free.
func (h *SlotHandler) Create(c echo.Context) error {
	var req createSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if !validTypeAllowed(req.TypeAllowed) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type_allowed must be Car, Motorcycle or Both"})
	}
	if req.HourlyRate < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hourly_rate must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	slot := &model.Slot{Name: req.Name, TypeAllowed: req.TypeAllowed, HourlyRate: req.HourlyRate}
	if err := h.Slots.Create(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrSlotNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}
	return c.JSON(http.StatusCreated, slot)
}

// List returns every slot ordered by name.
func (h *SlotHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	slots, err := h.Slots.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if slots == nil {
		slots = []model.Slot{}
	}
	return c.JSON(http.StatusOK, slots)
}

// Get returns a single slot by id.
func (h *SlotHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	slot, err := h.Slots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, slot)
}

// Update patches the provided slot fields.
func (h *SlotHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TypeAllowed != nil && !validTypeAllowed(*req.TypeAllowed) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type_allowed must be Car, Motorcycle or Both"})
	}
	if req.Status != nil && *req.Status != model.SlotFree && *req.Status != model.SlotOccupied {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be free or occupied"})
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hourly_rate must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Slots.Update(ctx, id, req.Name, req.TypeAllowed, req.Status, req.HourlyRate); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot name already exists"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a slot. Occupied slots cannot be removed.
func (h *SlotHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	slot, err := h.Slots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if slot.Status == model.SlotOccupied {
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot is occupied"})
	}

	if err := h.Slots.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Occupancy returns current occupied/free/total counts.
func (h *SlotHandler) Occupancy(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	stats, err := h.Slots.Occupancy(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}
