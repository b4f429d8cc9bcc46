package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/utils"
)

// VehicleHandler implements the parking lifecycle endpoints: entry, exit
// and session lookups.
type VehicleHandler struct {
	Vehicles *repository.VehicleRepo
	Slots    *repository.SlotRepo
}

func NewVehicleHandler(v *repository.VehicleRepo, s *repository.SlotRepo) *VehicleHandler {
	return &VehicleHandler{Vehicles: v, Slots: s}
}

type parkReq struct {
	Number        string `json:"number"`
	Type          string `json:"type"` // Car | Motorcycle
	PaymentMethod string `json:"payment_method"`
}

type sessionResp struct {
	ID            uint64  `json:"id"`
	Number        string  `json:"number"`
	Type          string  `json:"type"`
	Username      string  `json:"username"`
	SlotID        *uint64 `json:"slot_id"`
	SlotName      string  `json:"slot_name,omitempty"`
	EntryTime     string  `json:"entry_time"`
	ExitTime      *string `json:"exit_time"`
	PaymentMethod string  `json:"payment_method"`
}

func toSessionResp(s *model.VehicleSession, slotName string) sessionResp {
	return sessionResp{
		ID:            s.ID,
		Number:        s.Number,
		Type:          s.Type,
		Username:      s.Username,
		SlotID:        s.SlotID,
		SlotName:      slotName,
		EntryTime:     s.EntryTime,
		ExitTime:      s.ExitTime,
		PaymentMethod: s.PaymentMethod,
	}
}

// normalizeVehicleType maps free-form input to the two canonical type
// names; anything starting with "c" counts as a car.
func normalizeVehicleType(t string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(t)), "c") {
		return model.TypeCar
	}
	return model.TypeMotorcycle
}

// Park allocates the first eligible free slot and opens a session for the
// vehicle. The slot flip and session insert run in one transaction, so a
// lost race over the last free slot rolls back cleanly.
func (h *VehicleHandler) Park(c echo.Context) error {
	var req parkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.ToUpper(strings.TrimSpace(req.Number))
	if req.Number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number required"})
	}
	vehicleType := normalizeVehicleType(req.Type)
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = "cash"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	slot, err := h.Slots.FindFreeForType(ctx, vehicleType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if slot == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no free slot available for this vehicle type"})
	}

	session := &model.VehicleSession{
		Number:        req.Number,
		Type:          vehicleType,
		Username:      currentUsername(c),
		SlotID:        &slot.ID,
		EntryTime:     utils.NowString(),
		PaymentMethod: method,
	}

	tx, err := h.Vehicles.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Vehicles.ParkTx(ctx, tx, session); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyParked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle is already parked"})
		case errors.Is(err, repository.ErrSlotUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot was taken, retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "park failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, toSessionResp(session, slot.Name))
}

// Exit closes the open session for a vehicle number and frees its slot in
// one transaction.
func (h *VehicleHandler) Exit(c echo.Context) error {
	number := strings.ToUpper(strings.TrimSpace(c.Param("number")))
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.Vehicles.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	session, err := h.Vehicles.ExitTx(ctx, tx, number, utils.NowString())
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenSession) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle is not parked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "exit failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, toSessionResp(session, ""))
}

// List returns vehicle sessions, optionally filtered by ?q, ?from and ?to
// (entry-time range).
func (h *VehicleHandler) List(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		sessions []model.VehicleSession
		err      error
	)
	if term == "" && from == "" && to == "" {
		sessions, err = h.Vehicles.List(ctx)
	} else {
		sessions, err = h.Vehicles.Search(ctx, term, from, to)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]sessionResp, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResp(&sessions[i], ""))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns the latest session for a vehicle number, open or closed.
func (h *VehicleHandler) Get(c echo.Context) error {
	number := strings.ToUpper(strings.TrimSpace(c.Param("number")))

	ctx, cancel := reqCtx(c)
	defer cancel()

	session, err := h.Vehicles.GetLatestByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toSessionResp(session, ""))
}
