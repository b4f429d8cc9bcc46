package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/billing"
	"github.com/iliyamo/smart-parking/internal/config"
	"github.com/iliyamo/smart-parking/internal/export"
	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/queue"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/utils"
)

// ReceiptPublisher delivers receipt events to the mail pipeline.
type ReceiptPublisher interface {
	PublishReceiptIssued(ctx context.Context, event queue.ReceiptIssuedEvent) error
}

// PaymentHandler implements receipt issuance and payment history.
type PaymentHandler struct {
	Cfg        config.Config
	Payments   *repository.PaymentRepo
	Vehicles   *repository.VehicleRepo
	Slots      *repository.SlotRepo
	Users      *repository.UserRepo
	Calculator *billing.Calculator
	Publisher  ReceiptPublisher
}

func NewPaymentHandler(cfg config.Config, p *repository.PaymentRepo, v *repository.VehicleRepo,
	s *repository.SlotRepo, u *repository.UserRepo, calc *billing.Calculator, pub ReceiptPublisher) *PaymentHandler {
	return &PaymentHandler{Cfg: cfg, Payments: p, Vehicles: v, Slots: s, Users: u, Calculator: calc, Publisher: pub}
}

type receiptReq struct {
	PaymentMethod string `json:"payment_method"`
	ExitIfParked  bool   `json:"exit_if_parked"`
}

type receiptResp struct {
	Payment model.Payment `json:"payment"`
	Session sessionResp   `json:"session"`
}

// IssueReceipt computes the fee for a vehicle's latest session, records
// the payment and generates a PDF receipt. When the session is still open
// the request fails unless exit_if_parked is set, in which case the exit
// runs first. The payment row is the ledger entry: a failed PDF render is
// logged and leaves the path empty, and the email publish is best-effort
// after the row is committed.
func (h *PaymentHandler) IssueReceipt(c echo.Context) error {
	number := strings.ToUpper(strings.TrimSpace(c.Param("number")))
	var req receiptReq
	_ = c.Bind(&req)
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = "cash"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	session, err := h.Vehicles.GetLatestByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if session.ExitTime == nil {
		if !req.ExitIfParked {
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle is still parked; set exit_if_parked to close the session"})
		}
		session, err = h.exitOpenSession(ctx, number)
		if err != nil {
			if errors.Is(err, repository.ErrNoOpenSession) {
				// closed between the lookup and the exit; reload
				session, err = h.Vehicles.GetLatestByNumber(ctx, number)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
				}
			} else {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "exit failed"})
			}
		}
	}
	// The reloaded session can be open again when the vehicle was exited
	// and re-parked concurrently; billing needs a closed session.
	if session.ExitTime == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle was parked again; retry the receipt"})
	}

	// The slot override survives slot deletion as a zero rate, which
	// falls back to the per-type default.
	var slotRate float64
	if session.SlotID != nil {
		if slot, err := h.Slots.GetByID(ctx, *session.SlotID); err == nil {
			slotRate = slot.HourlyRate
		} else if !errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	amount, duration, err := h.Calculator.Compute(session.EntryTime, *session.ExitTime, session.Type, slotRate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fee computation failed"})
	}

	operator := currentUsername(c)
	issuedAt := utils.NowString()
	payment := &model.Payment{
		VehicleNumber: session.Number,
		Amount:        amount,
		PaidAt:        issuedAt,
		DurationHours: duration,
		GeneratedBy:   operator,
		PaymentMethod: method,
	}

	receiptPath, pdfErr := export.GenerateReceipt(h.Cfg.ExportDir, export.ReceiptData{
		Session:       session,
		Amount:        amount,
		DurationHours: duration,
		PaymentMethod: method,
		Operator:      operator,
		IssuedAt:      issuedAt,
	})
	if pdfErr != nil {
		log.Printf("receipt: pdf generation for %s failed: %v", session.Number, pdfErr)
	} else {
		payment.ReceiptPath = receiptPath
	}

	if err := h.Payments.Create(ctx, payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment failed"})
	}

	h.publishReceipt(ctx, payment, session)

	return c.JSON(http.StatusCreated, receiptResp{
		Payment: *payment,
		Session: toSessionResp(session, ""),
	})
}

// exitOpenSession closes the open session transactionally, mirroring the
// exit endpoint.
func (h *PaymentHandler) exitOpenSession(ctx context.Context, number string) (*model.VehicleSession, error) {
	tx, err := h.Vehicles.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	session, err := h.Vehicles.ExitTx(ctx, tx, number, utils.NowString())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return session, nil
}

// publishReceipt emits the receipt.issued event. Delivery is best-effort;
// the payment is already on the ledger.
func (h *PaymentHandler) publishReceipt(ctx context.Context, p *model.Payment, s *model.VehicleSession) {
	exit := ""
	if s.ExitTime != nil {
		exit = *s.ExitTime
	}
	ev := queue.ReceiptIssuedEvent{
		PaymentID:     p.ID,
		VehicleNumber: p.VehicleNumber,
		VehicleType:   s.Type,
		EntryTime:     s.EntryTime,
		ExitTime:      exit,
		DurationHours: p.DurationHours,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Operator:      p.GeneratedBy,
		ReceiptPath:   p.ReceiptPath,
		IssuedAt:      p.PaidAt,
	}
	if owner, err := h.Users.GetByUsername(ctx, s.Username); err == nil {
		ev.RecipientEmail = owner.Email
		ev.RecipientName = owner.FullName
	}
	if h.Publisher == nil {
		return
	}
	if err := h.Publisher.PublishReceiptIssued(ctx, ev); err != nil {
		log.Printf("receipt: publish event for %s failed: %v", p.VehicleNumber, err)
	}
}

// List returns payments, optionally filtered by ?q, ?from and ?to
// (paid-at range).
func (h *PaymentHandler) List(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		payments []model.Payment
		err      error
	)
	if term == "" && from == "" && to == "" {
		payments, err = h.Payments.List(ctx)
	} else {
		payments, err = h.Payments.Search(ctx, term, from, to)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, payments)
}
