package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/smart-parking/internal/config"
)

// Open connects to the configured database and verifies the connection.
// The default backend is a local SQLite file; set DB_DRIVER=mysql to use
// a MySQL server instead.
func Open(cfg config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case "mysql":
		auth := cfg.DBUser
		if cfg.DBPass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
		}
		// parseTime stays off: all timestamps are stored as text in the
		// canonical "2006-01-02 15:04:05" layout.
		dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&loc=UTC",
			auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	default:
		db, err = sql.Open("sqlite3", cfg.DBPath+"?_busy_timeout=5000&_foreign_keys=on")
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer; serializing through one
		// connection avoids SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
