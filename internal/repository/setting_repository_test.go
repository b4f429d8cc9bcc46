package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingRepoMock(t *testing.T) (*SettingRepo, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSettingRepo(db), mock, db
}

func TestSettingGetDefault(t *testing.T) {
	repo, mock, db := newSettingRepoMock(t)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("car_rate").
		WillReturnError(sql.ErrNoRows)

	v, err := repo.Get(context.Background(), "car_rate", "1000")
	require.NoError(t, err)
	assert.Equal(t, "1000", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingSetUpdatesExistingRow(t *testing.T) {
	repo, mock, db := newSettingRepoMock(t)
	defer db.Close()

	mock.ExpectExec("UPDATE settings SET value").
		WithArgs("1500", "car_rate").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Set(context.Background(), "car_rate", "1500")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingSetInsertsMissingRow(t *testing.T) {
	repo, mock, db := newSettingRepoMock(t)
	defer db.Close()

	mock.ExpectExec("UPDATE settings SET value").
		WithArgs("587", "smtp_port").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("smtp_port", "587").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Set(context.Background(), "smtp_port", "587")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetManyRunsInOneTransaction(t *testing.T) {
	repo, mock, db := newSettingRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE settings SET value").
		WithArgs("2000", "car_rate").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetMany(context.Background(), map[string]string{"car_rate": "2000"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetManyRollsBackOnError(t *testing.T) {
	repo, mock, db := newSettingRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE settings SET value").
		WithArgs("2000", "car_rate").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.SetMany(context.Background(), map[string]string{"car_rate": "2000"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
