package repository // repository defines data access for parking slots

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/smart-parking/internal/model"
)

// SlotRepo provides methods to work with slots in the database.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo constructs a SlotRepo with the given DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// Create inserts a slot record. On success the slot's ID is populated.
// New slots always start free.
func (r *SlotRepo) Create(ctx context.Context, s *model.Slot) error {
	const q = `INSERT INTO slots (name, type_allowed, status, hourly_rate)
	           VALUES (?, ?, 'free', ?)`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.TypeAllowed, s.HourlyRate)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlotNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.SlotFree
	return nil
}

// List retrieves all slots ordered by name.
func (r *SlotRepo) List(ctx context.Context) ([]model.Slot, error) {
	const q = `SELECT id, name, type_allowed, status, hourly_rate
	           FROM slots ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Slot
	for rows.Next() {
		var s model.Slot
		if err := rows.Scan(&s.ID, &s.Name, &s.TypeAllowed, &s.Status, &s.HourlyRate); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a slot by its id.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*model.Slot, error) {
	const q = `SELECT id, name, type_allowed, status, hourly_rate FROM slots WHERE id = ?`
	var s model.Slot
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.Name, &s.TypeAllowed, &s.Status, &s.HourlyRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindFreeForType returns the first free slot whose eligibility matches
// the vehicle type exactly or is the wildcard 'Both', in store iteration
// order. It returns (nil, nil) when no eligible slot exists; callers
// treat that as a user-facing "lot full" condition, not an error.
func (r *SlotRepo) FindFreeForType(ctx context.Context, vehicleType string) (*model.Slot, error) {
	const q = `SELECT id, name, type_allowed, status, hourly_rate
	           FROM slots
	           WHERE status = 'free' AND (type_allowed = ? OR type_allowed = 'Both')
	           ORDER BY id LIMIT 1`
	var s model.Slot
	err := r.db.QueryRowContext(ctx, q, vehicleType).
		Scan(&s.ID, &s.Name, &s.TypeAllowed, &s.Status, &s.HourlyRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Update changes the provided fields only; nil pointers leave the column
// untouched. Returns sql.ErrNoRows when the slot does not exist.
func (r *SlotRepo) Update(ctx context.Context, id uint64, name, typeAllowed, status *string, hourlyRate *float64) error {
	parts := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if name != nil {
		parts = append(parts, "name=?")
		args = append(args, *name)
	}
	if typeAllowed != nil {
		parts = append(parts, "type_allowed=?")
		args = append(args, *typeAllowed)
	}
	if status != nil {
		parts = append(parts, "status=?")
		args = append(args, *status)
	}
	if hourlyRate != nil {
		parts = append(parts, "hourly_rate=?")
		args = append(args, *hourlyRate)
	}
	if len(parts) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE slots SET "+strings.Join(parts, ", ")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlotNameExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a slot. Returns sql.ErrNoRows when absent. Historical
// vehicle sessions keep their slot_id reference; lookups on a deleted
// slot simply fall back to the type default rate.
func (r *SlotRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM slots WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// OccupancyStats aggregates slot counts by status for the dashboard.
type OccupancyStats struct {
	Occupied int `json:"occupied"`
	Free     int `json:"free"`
	Total    int `json:"total"`
}

// Occupancy returns current occupancy counts across all slots.
func (r *SlotRepo) Occupancy(ctx context.Context) (OccupancyStats, error) {
	const q = `SELECT status, COUNT(*) FROM slots GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return OccupancyStats{}, err
	}
	defer rows.Close()

	var stats OccupancyStats
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return OccupancyStats{}, err
		}
		switch status {
		case model.SlotOccupied:
			stats.Occupied = n
		case model.SlotFree:
			stats.Free = n
		}
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return OccupancyStats{}, err
	}
	return stats, nil
}
