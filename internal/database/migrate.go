package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/iliyamo/smart-parking/internal/utils"
)

// Migrate creates all tables for the selected driver. Statements are
// idempotent (CREATE IF NOT EXISTS) so running at every startup is safe.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := sqliteSchema
	if driver == "mysql" {
		schema = mysqlSchema
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdmin seeds the default administrator account when no admin user
// exists yet. The default credentials are admin/admin123 and should be
// changed after first login.
func EnsureAdmin(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username='admin'").Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := utils.HashPassword("admin123", bcryptCost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, full_name, role) VALUES (?,?,?,?)",
		"admin", hash, "Administrator", "admin")
	if err != nil {
		return err
	}
	log.Println("seeded default admin account (change the password)")
	return nil
}
