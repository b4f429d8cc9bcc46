package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SettingRepo stores key-value configuration rows with idempotent upsert
// semantics. The update-then-insert dance keeps the upsert portable
// between sqlite and MySQL, which spell ON CONFLICT differently.
type SettingRepo struct {
	db *sql.DB
}

// NewSettingRepo returns a new SettingRepo bound to the given database.
func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{db: db} }

// Get returns the value for key, or def when the key is absent.
func (r *SettingRepo) Get(ctx context.Context, key, def string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE `key`=?", key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return def, nil
		}
		return "", err
	}
	return v, nil
}

// GetAll returns every setting as a map.
func (r *SettingRepo) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT `key`, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Set upserts a single key.
func (r *SettingRepo) Set(ctx context.Context, key, value string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE settings SET value=? WHERE `key`=?", value, key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO settings (`key`, value) VALUES (?, ?)", key, value)
	if err != nil && isDuplicate(err) {
		// lost a race with a concurrent insert; the update below wins
		_, err = r.db.ExecContext(ctx,
			"UPDATE settings SET value=? WHERE `key`=?", value, key)
	}
	return err
}

// SetMany upserts several keys in one transaction.
func (r *SettingRepo) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for k, v := range values {
		res, err := tx.ExecContext(ctx,
			"UPDATE settings SET value=? WHERE `key`=?", v, k)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO settings (`key`, value) VALUES (?, ?)", k, v); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
