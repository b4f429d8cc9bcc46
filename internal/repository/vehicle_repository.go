package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/smart-parking/internal/model"
)

// VehicleRepo provides CRUD operations for vehicle sessions. The park and
// exit state transitions span the vehicles and slots tables, so both run
// as single transactional units: a crash can never leave a slot marked
// occupied without an open session, or the other way round.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo returns a new VehicleRepo bound to the given database.
func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

// DB exposes the underlying handle for handler-driven transactions.
func (r *VehicleRepo) DB() *sql.DB { return r.db }

// ParkTx records a vehicle entry inside an existing transaction: it
// verifies the number has no open session, inserts the session row and
// marks the slot occupied. The caller must commit or rollback. Returns
// ErrAlreadyParked when an open session exists and ErrSlotUnavailable
// when the slot stopped being free since allocation.
func (r *VehicleRepo) ParkTx(ctx context.Context, tx *sql.Tx, s *model.VehicleSession) error {
	var open int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vehicles WHERE number=? AND exit_time IS NULL",
		s.Number).Scan(&open)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrAlreadyParked
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE slots SET status='occupied' WHERE id=? AND status='free'", s.SlotID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSlotUnavailable
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO vehicles (number, type, username, slot_id, entry_time, exit_time, payment_method)
		 VALUES (?, ?, ?, ?, ?, NULL, ?)`,
		s.Number, s.Type, s.Username, s.SlotID, s.EntryTime, s.PaymentMethod)
	if err != nil {
		// the partial unique index on sqlite can still fire here
		if isDuplicate(err) {
			return ErrAlreadyParked
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// ExitTx records a vehicle exit inside an existing transaction: it closes
// the most recent open session (highest id with null exit time) for the
// number and frees the slot that session references. Returns
// ErrNoOpenSession — the zero-affected-rows signal — when nothing is open;
// in that case no slot is altered.
func (r *VehicleRepo) ExitTx(ctx context.Context, tx *sql.Tx, number, exitTime string) (*model.VehicleSession, error) {
	var (
		s      model.VehicleSession
		slotID sql.NullInt64
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, number, type, username, slot_id, entry_time, payment_method
		 FROM vehicles
		 WHERE number=? AND exit_time IS NULL
		 ORDER BY id DESC LIMIT 1`,
		number).Scan(&s.ID, &s.Number, &s.Type, &s.Username, &slotID, &s.EntryTime, &s.PaymentMethod)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE vehicles SET exit_time=? WHERE id=?", exitTime, s.ID); err != nil {
		return nil, err
	}
	s.ExitTime = &exitTime

	if slotID.Valid {
		sid := uint64(slotID.Int64)
		s.SlotID = &sid
		if _, err := tx.ExecContext(ctx,
			"UPDATE slots SET status='free' WHERE id=?", sid); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// GetLatestByNumber returns the most recent session row for a vehicle
// number, open or closed. Returns ErrVehicleNotFound when the number has
// never been parked.
func (r *VehicleRepo) GetLatestByNumber(ctx context.Context, number string) (*model.VehicleSession, error) {
	const q = `SELECT id, number, type, username, slot_id, entry_time, exit_time, payment_method
	           FROM vehicles WHERE number=? ORDER BY id DESC LIMIT 1`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns all sessions, newest first.
func (r *VehicleRepo) List(ctx context.Context) ([]model.VehicleSession, error) {
	const q = `SELECT id, number, type, username, slot_id, entry_time, exit_time, payment_method
	           FROM vehicles ORDER BY id DESC`
	return r.query(ctx, q)
}

// Search filters sessions by a term matched against the vehicle number or
// operator username, and by an entry-time range. Empty arguments are
// ignored, so Search("", "", "") is equivalent to List. A date-only
// upper bound covers that whole day.
func (r *VehicleRepo) Search(ctx context.Context, term, dateFrom, dateTo string) ([]model.VehicleSession, error) {
	q := `SELECT id, number, type, username, slot_id, entry_time, exit_time, payment_method
	      FROM vehicles WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if term != "" {
		q += " AND (number LIKE ? OR username LIKE ?)"
		args = append(args, "%"+term+"%", "%"+term+"%")
	}
	if dateFrom != "" {
		q += " AND entry_time >= ?"
		args = append(args, dateFrom)
	}
	if dateTo != "" {
		q += " AND entry_time <= ?"
		args = append(args, toDayEnd(dateTo))
	}
	q += " ORDER BY id DESC"
	return r.query(ctx, q, args...)
}

func (r *VehicleRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.VehicleSession, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.VehicleSession, 0)
	for rows.Next() {
		var (
			s      model.VehicleSession
			slotID sql.NullInt64
			exit   sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Number, &s.Type, &s.Username, &slotID,
			&s.EntryTime, &exit, &s.PaymentMethod); err != nil {
			return nil, err
		}
		if slotID.Valid {
			sid := uint64(slotID.Int64)
			s.SlotID = &sid
		}
		if exit.Valid {
			e := exit.String
			s.ExitTime = &e
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// scanSession scans a single session row from QueryRowContext.
func scanSession(row *sql.Row) (*model.VehicleSession, error) {
	var (
		s      model.VehicleSession
		slotID sql.NullInt64
		exit   sql.NullString
	)
	err := row.Scan(&s.ID, &s.Number, &s.Type, &s.Username, &slotID,
		&s.EntryTime, &exit, &s.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if slotID.Valid {
		sid := uint64(slotID.Int64)
		s.SlotID = &sid
	}
	if exit.Valid {
		e := exit.String
		s.ExitTime = &e
	}
	return &s, nil
}
