package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/smart-parking/internal/billing"
	"github.com/iliyamo/smart-parking/internal/config"
	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/queue"
	"github.com/iliyamo/smart-parking/internal/repository"
)

// capturePublisher records events instead of talking to the broker.
type capturePublisher struct {
	events []queue.ReceiptIssuedEvent
}

func (p *capturePublisher) PublishReceiptIssued(_ context.Context, ev queue.ReceiptIssuedEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func newPaymentHandlerMock(t *testing.T) (*PaymentHandler, sqlmock.Sqlmock, *capturePublisher, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	pub := &capturePublisher{}
	cfg := config.Config{ExportDir: t.TempDir()}
	h := NewPaymentHandler(cfg,
		repository.NewPaymentRepo(db),
		repository.NewVehicleRepo(db),
		repository.NewSlotRepo(db),
		repository.NewUserRepo(db),
		billing.NewCalculator(),
		pub)
	return h, mock, pub, func() { db.Close() }
}

var sessionCols = []string{"id", "number", "type", "username", "slot_id",
	"entry_time", "exit_time", "payment_method"}

func TestIssueReceiptClosedSession(t *testing.T) {
	h, mock, pub, closeDB := newPaymentHandlerMock(t)
	defer closeDB()

	exit := "2026-03-01 12:30:00"
	mock.ExpectQuery("FROM vehicles").
		WithArgs("KA01AB1234").
		WillReturnRows(sqlmock.NewRows(sessionCols).
			AddRow(5, "KA01AB1234", model.TypeCar, "operator1", 3,
				"2026-03-01 09:00:00", exit, "cash"))
	mock.ExpectQuery("FROM slots").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type_allowed", "status", "hourly_rate"}).
			AddRow(3, "A1", model.TypeCar, "free", 1000.0))
	mock.ExpectExec("INSERT INTO payments").
		WithArgs("KA01AB1234", 3500.0, sqlmock.AnyArg(), 3.5,
			"operator1", sqlmock.AnyArg(), "card").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("FROM users").
		WithArgs("operator1").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash", "full_name", "role", "email"}).
			AddRow("operator1", "x", "Operator One", "user", "op1@example.com"))

	c, rec := newEchoContext(http.MethodPost, "/v1/vehicles/KA01AB1234/receipt",
		`{"payment_method":"card"}`)
	c.SetParamNames("number")
	c.SetParamValues("KA01AB1234")

	require.NoError(t, h.IssueReceipt(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp receiptResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(9), resp.Payment.ID)
	assert.Equal(t, 3500.0, resp.Payment.Amount)
	assert.Equal(t, 3.5, resp.Payment.DurationHours)
	assert.Equal(t, "operator1", resp.Payment.GeneratedBy)
	assert.NotEmpty(t, resp.Payment.ReceiptPath)

	require.Len(t, pub.events, 1)
	assert.Equal(t, uint64(9), pub.events[0].PaymentID)
	assert.Equal(t, "op1@example.com", pub.events[0].RecipientEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueReceiptStillParkedWithoutFlag(t *testing.T) {
	h, mock, pub, closeDB := newPaymentHandlerMock(t)
	defer closeDB()

	mock.ExpectQuery("FROM vehicles").
		WithArgs("KA01AB1234").
		WillReturnRows(sqlmock.NewRows(sessionCols).
			AddRow(5, "KA01AB1234", model.TypeCar, "operator1", 3,
				"2026-03-01 09:00:00", nil, "cash"))

	c, rec := newEchoContext(http.MethodPost, "/v1/vehicles/KA01AB1234/receipt",
		`{"payment_method":"cash"}`)
	c.SetParamNames("number")
	c.SetParamValues("KA01AB1234")

	require.NoError(t, h.IssueReceipt(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueReceiptVehicleReparkedDuringExit(t *testing.T) {
	h, mock, pub, closeDB := newPaymentHandlerMock(t)
	defer closeDB()

	// Open session triggers the exit, the exit finds nothing (another
	// request already closed it) and the reload sees a fresh open session:
	// the vehicle was parked again in between. The handler must answer 409
	// rather than bill the open session.
	mock.ExpectQuery("FROM vehicles").
		WithArgs("KA01AB1234").
		WillReturnRows(sqlmock.NewRows(sessionCols).
			AddRow(5, "KA01AB1234", model.TypeCar, "operator1", 3,
				"2026-03-01 09:00:00", nil, "cash"))
	mock.ExpectBegin()
	mock.ExpectQuery("FROM vehicles").
		WithArgs("KA01AB1234").
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "type", "username",
			"slot_id", "entry_time", "payment_method"}))
	mock.ExpectRollback()
	mock.ExpectQuery("FROM vehicles").
		WithArgs("KA01AB1234").
		WillReturnRows(sqlmock.NewRows(sessionCols).
			AddRow(6, "KA01AB1234", model.TypeCar, "operator1", 4,
				"2026-03-01 12:31:00", nil, "cash"))

	c, rec := newEchoContext(http.MethodPost, "/v1/vehicles/KA01AB1234/receipt",
		`{"payment_method":"cash","exit_if_parked":true}`)
	c.SetParamNames("number")
	c.SetParamValues("KA01AB1234")

	require.NoError(t, h.IssueReceipt(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
