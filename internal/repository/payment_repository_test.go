package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/smart-parking/internal/model"
)

func newPaymentRepoMock(t *testing.T) (*PaymentRepo, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPaymentRepo(db), mock, func() { db.Close() }
}

func TestPaymentCreateStampsPaidAt(t *testing.T) {
	repo, mock, closeDB := newPaymentRepoMock(t)
	defer closeDB()

	p := &model.Payment{
		VehicleNumber: "KA01AB1234",
		Amount:        3500,
		DurationHours: 3.5,
		GeneratedBy:   "operator1",
		ReceiptPath:   "exports/receipt_KA01AB1234_5.pdf",
		PaymentMethod: "card",
	}

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(p.VehicleNumber, p.Amount, sqlmock.AnyArg(), p.DurationHours,
			p.GeneratedBy, p.ReceiptPath, p.PaymentMethod).
		WillReturnResult(sqlmock.NewResult(9, 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, uint64(9), p.ID)
	assert.NotEmpty(t, p.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentCreateKeepsExplicitPaidAt(t *testing.T) {
	repo, mock, closeDB := newPaymentRepoMock(t)
	defer closeDB()

	p := &model.Payment{
		VehicleNumber: "KA01AB1234",
		Amount:        1000,
		PaidAt:        "2026-03-01 12:30:00",
		DurationHours: 0.75,
		GeneratedBy:   "operator1",
		PaymentMethod: "cash",
	}

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(p.VehicleNumber, p.Amount, "2026-03-01 12:30:00", p.DurationHours,
			p.GeneratedBy, "", p.PaymentMethod).
		WillReturnResult(sqlmock.NewResult(10, 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, "2026-03-01 12:30:00", p.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentSearchWidensDateOnlyUpperBound(t *testing.T) {
	repo, mock, closeDB := newPaymentRepoMock(t)
	defer closeDB()

	cols := []string{"id", "vehicle_number", "amount", "paid_at", "duration_hours",
		"generated_by", "receipt_path", "payment_method"}

	mock.ExpectQuery("FROM payments").
		WithArgs("%KA01%", "%KA01%", "2026-03-01 00:00:00", "2026-03-01 23:59:59").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(4, "KA01AB1234", 3500.0, "2026-03-01 12:30:00", 3.5,
				"operator1", "", "card"))

	got, err := repo.Search(context.Background(), "KA01", "2026-03-01 00:00:00", "2026-03-01")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KA01AB1234", got[0].VehicleNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentSearchKeepsFullTimestampBound(t *testing.T) {
	repo, mock, closeDB := newPaymentRepoMock(t)
	defer closeDB()

	cols := []string{"id", "vehicle_number", "amount", "paid_at", "duration_hours",
		"generated_by", "receipt_path", "payment_method"}

	mock.ExpectQuery("FROM payments").
		WithArgs("2026-03-01 12:00:00").
		WillReturnRows(sqlmock.NewRows(cols))

	_, err := repo.Search(context.Background(), "", "", "2026-03-01 12:00:00")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevenueRangeIncludesWholeLastDay(t *testing.T) {
	repo, mock, closeDB := newPaymentRepoMock(t)
	defer closeDB()

	mock.ExpectQuery("FROM payments").
		WithArgs("2026-03-01", "2026-03-02 23:59:59").
		WillReturnRows(sqlmock.NewRows([]string{"total", "count"}).AddRow(4500.0, 3))

	stats, err := repo.Revenue(context.Background(), "2026-03-01", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 4500.0, stats.Total)
	assert.Equal(t, 3, stats.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
