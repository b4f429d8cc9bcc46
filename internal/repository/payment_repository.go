package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/utils"
)

// PaymentRepo provides append-only access to the 'payments' table plus
// the read-only aggregates the report endpoints consume.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// toDayEnd widens a bare "YYYY-MM-DD" range bound to the last second of
// that day, so the day itself is included in <= comparisons. Full
// timestamps pass through unchanged.
func toDayEnd(s string) string {
	if len(s) == len("2006-01-02") {
		return s + " 23:59:59"
	}
	return s
}

// Create appends a payment row. PaidAt is stamped at recording time when
// the caller leaves it empty. Payments are never updated or deleted.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	if p.PaidAt == "" {
		p.PaidAt = utils.NowString()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (vehicle_number, amount, paid_at, duration_hours, generated_by, receipt_path, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.VehicleNumber, p.Amount, p.PaidAt, p.DurationHours, p.GeneratedBy, p.ReceiptPath, p.PaymentMethod)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// List returns all payments, newest first.
func (r *PaymentRepo) List(ctx context.Context) ([]model.Payment, error) {
	const q = `SELECT id, vehicle_number, amount, paid_at, duration_hours, generated_by, receipt_path, payment_method
	           FROM payments ORDER BY id DESC`
	return r.query(ctx, q)
}

// Search filters payments by a term matched against the vehicle number or
// operator, and by a paid-at range. Empty arguments are ignored; a
// date-only upper bound covers that whole day.
func (r *PaymentRepo) Search(ctx context.Context, term, dateFrom, dateTo string) ([]model.Payment, error) {
	q := `SELECT id, vehicle_number, amount, paid_at, duration_hours, generated_by, receipt_path, payment_method
	      FROM payments WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if term != "" {
		q += " AND (vehicle_number LIKE ? OR generated_by LIKE ?)"
		args = append(args, "%"+term+"%", "%"+term+"%")
	}
	if dateFrom != "" {
		q += " AND paid_at >= ?"
		args = append(args, dateFrom)
	}
	if dateTo != "" {
		q += " AND paid_at <= ?"
		args = append(args, toDayEnd(dateTo))
	}
	q += " ORDER BY id DESC"
	return r.query(ctx, q, args...)
}

// RevenueStats holds the aggregate revenue for a date range.
type RevenueStats struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Revenue sums payment amounts within the optional paid-at range. A
// date-only upper bound covers that whole day.
func (r *PaymentRepo) Revenue(ctx context.Context, dateFrom, dateTo string) (RevenueStats, error) {
	q := "SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM payments WHERE 1=1"
	args := make([]interface{}, 0, 2)
	if dateFrom != "" {
		q += " AND paid_at >= ?"
		args = append(args, dateFrom)
	}
	if dateTo != "" {
		q += " AND paid_at <= ?"
		args = append(args, toDayEnd(dateTo))
	}
	var stats RevenueStats
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&stats.Total, &stats.Count)
	return stats, err
}

// DailyRevenue is one time bucket of the revenue series.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// RevenueByDay buckets revenue per calendar day over the last N days.
// SUBSTR over the text timestamp keeps the query portable across both
// dialects.
func (r *PaymentRepo) RevenueByDay(ctx context.Context, days int) ([]DailyRevenue, error) {
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(utils.TimeLayout)
	const q = `SELECT SUBSTR(paid_at, 1, 10) AS day, SUM(amount)
	           FROM payments
	           WHERE paid_at >= ?
	           GROUP BY SUBSTR(paid_at, 1, 10)
	           ORDER BY day`
	rows, err := r.db.QueryContext(ctx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]DailyRevenue, 0)
	for rows.Next() {
		var d DailyRevenue
		if err := rows.Scan(&d.Date, &d.Revenue); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PaymentRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.VehicleNumber, &p.Amount, &p.PaidAt,
			&p.DurationHours, &p.GeneratedBy, &p.ReceiptPath, &p.PaymentMethod); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
