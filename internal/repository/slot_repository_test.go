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

func newSlotRepoMock(t *testing.T) (*SlotRepo, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSlotRepo(db), mock, db
}

var slotCols = []string{"id", "name", "type_allowed", "status", "hourly_rate"}

func TestFindFreeForTypeMatches(t *testing.T) {
	repo, mock, db := newSlotRepoMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM slots").
		WithArgs(model.TypeMotorcycle).
		WillReturnRows(sqlmock.NewRows(slotCols).
			AddRow(4, "Gen1", model.TypeBoth, "free", 0))

	slot, err := repo.FindFreeForType(context.Background(), model.TypeMotorcycle)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, uint64(4), slot.ID)
	assert.Equal(t, "Gen1", slot.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindFreeForTypeLotFull(t *testing.T) {
	repo, mock, db := newSlotRepoMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM slots").
		WithArgs(model.TypeCar).
		WillReturnError(sql.ErrNoRows)

	slot, err := repo.FindFreeForType(context.Background(), model.TypeCar)
	require.NoError(t, err)
	assert.Nil(t, slot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSlotDuplicateName(t *testing.T) {
	repo, mock, db := newSlotRepoMock(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO slots").
		WithArgs("A1", model.TypeCar, 1000.0).
		WillReturnError(errUnique{})

	err := repo.Create(context.Background(), &model.Slot{Name: "A1", TypeAllowed: model.TypeCar, HourlyRate: 1000})
	assert.ErrorIs(t, err, ErrSlotNameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotUpdateNotFound(t *testing.T) {
	repo, mock, db := newSlotRepoMock(t)
	defer db.Close()

	status := model.SlotFree
	mock.ExpectExec("UPDATE slots SET").
		WithArgs(status, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 99, nil, nil, &status, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccupancyCounts(t *testing.T) {
	repo, mock, db := newSlotRepoMock(t)
	defer db.Close()

	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("occupied", 3).
			AddRow("free", 7))

	stats, err := repo.Occupancy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Occupied)
	assert.Equal(t, 7, stats.Free)
	assert.Equal(t, 10, stats.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// errUnique mimics a sqlite uniqueness violation.
type errUnique struct{}

func (errUnique) Error() string { return "UNIQUE constraint failed: slots.name" }
