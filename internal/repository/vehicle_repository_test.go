package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/smart-parking/internal/model"
)

func newVehicleRepoMock(t *testing.T) (*VehicleRepo, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewVehicleRepo(db), mock, db
}

func beginTx(t *testing.T, db *sql.DB) *sql.Tx {
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	return tx
}

func TestParkTxSuccess(t *testing.T) {
	repo, mock, db := newVehicleRepoMock(t)
	defer db.Close()

	slotID := uint64(3)
	s := &model.VehicleSession{
		Number:        "KA01AB1234",
		Type:          model.TypeCar,
		Username:      "operator1",
		SlotID:        &slotID,
		EntryTime:     "2026-03-01 09:00:00",
		PaymentMethod: "cash",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vehicles`).
		WithArgs(s.Number).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE slots SET status='occupied'").
		WithArgs(s.SlotID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO vehicles").
		WithArgs(s.Number, s.Type, s.Username, s.SlotID, s.EntryTime, s.PaymentMethod).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	tx := beginTx(t, db)
	err := repo.ParkTx(context.Background(), tx, s)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint64(7), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParkTxAlreadyParked(t *testing.T) {
	repo, mock, db := newVehicleRepoMock(t)
	defer db.Close()

	slotID := uint64(1)
	s := &model.VehicleSession{Number: "KA01AB1234", SlotID: &slotID}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vehicles`).
		WithArgs(s.Number).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	tx := beginTx(t, db)
	err := repo.ParkTx(context.Background(), tx, s)
	assert.ErrorIs(t, err, ErrAlreadyParked)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParkTxSlotTaken(t *testing.T) {
	repo, mock, db := newVehicleRepoMock(t)
	defer db.Close()

	slotID := uint64(2)
	s := &model.VehicleSession{Number: "KA01AB1234", SlotID: &slotID}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vehicles`).
		WithArgs(s.Number).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE slots SET status='occupied'").
		WithArgs(s.SlotID).
		WillReturnResult(sqlmock.NewResult(0, 0)) // slot no longer free
	mock.ExpectRollback()

	tx := beginTx(t, db)
	err := repo.ParkTx(context.Background(), tx, s)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExitTxSuccess(t *testing.T) {
	repo, mock, db := newVehicleRepoMock(t)
	defer db.Close()

	cols := []string{"id", "number", "type", "username", "slot_id", "entry_time", "payment_method"}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM vehicles").
		WithArgs("KA01AB1234").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(5, "KA01AB1234", model.TypeCar, "operator1", 3, "2026-03-01 09:00:00", "cash"))
	mock.ExpectExec("UPDATE vehicles SET exit_time").
		WithArgs("2026-03-01 12:30:00", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE slots SET status='free'").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx := beginTx(t, db)
	s, err := repo.ExitTx(context.Background(), tx, "KA01AB1234", "2026-03-01 12:30:00")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.NotNil(t, s.ExitTime)
	assert.Equal(t, "2026-03-01 12:30:00", *s.ExitTime)
	require.NotNil(t, s.SlotID)
	assert.Equal(t, uint64(3), *s.SlotID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExitTxNoOpenSessionTouchesNothing(t *testing.T) {
	repo, mock, db := newVehicleRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM vehicles").
		WithArgs("KA01AB1234").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx := beginTx(t, db)
	_, err := repo.ExitTx(context.Background(), tx, "KA01AB1234", "2026-03-01 12:30:00")
	assert.ErrorIs(t, err, ErrNoOpenSession)
	require.NoError(t, tx.Rollback())

	// no UPDATE expectations were registered, so any write would fail here
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleSearchWidensDateOnlyUpperBound(t *testing.T) {
	repo, mock, db := newVehicleRepoMock(t)
	defer db.Close()

	cols := []string{"id", "number", "type", "username", "slot_id", "entry_time",
		"exit_time", "payment_method"}

	mock.ExpectQuery("FROM vehicles").
		WithArgs("2026-03-01", "2026-03-01 23:59:59").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(5, "KA01AB1234", model.TypeCar, "operator1", 3,
				"2026-03-01 09:00:00", nil, "cash"))

	got, err := repo.Search(context.Background(), "", "2026-03-01", "2026-03-01")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KA01AB1234", got[0].Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestByNumberNotFound(t *testing.T) {
	repo, mock, db := newVehicleRepoMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM vehicles").
		WithArgs("ZZ99ZZ9999").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetLatestByNumber(context.Background(), "ZZ99ZZ9999")
	assert.ErrorIs(t, err, ErrVehicleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
