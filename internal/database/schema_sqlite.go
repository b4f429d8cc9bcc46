package database

// sqliteSchema holds the DDL for the local SQLite backend. The partial
// unique index on vehicles enforces that a vehicle number has at most one
// open session; MySQL has no partial indexes, so ParkTx additionally
// pre-checks inside its transaction on both dialects.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT 'user',
		email         TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS slots (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL UNIQUE,
		type_allowed TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'free',
		hourly_rate  REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		number         TEXT NOT NULL,
		type           TEXT NOT NULL,
		username       TEXT NOT NULL DEFAULT '',
		slot_id        INTEGER,
		entry_time     TEXT NOT NULL,
		exit_time      TEXT,
		payment_method TEXT NOT NULL DEFAULT 'cash'
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_open
		ON vehicles(number) WHERE exit_time IS NULL`,
	`CREATE TABLE IF NOT EXISTS payments (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		vehicle_number TEXT NOT NULL,
		amount         REAL NOT NULL,
		paid_at        TEXT NOT NULL,
		duration_hours REAL NOT NULL,
		generated_by   TEXT NOT NULL DEFAULT '',
		receipt_path   TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT 'cash'
	)`,
	"CREATE TABLE IF NOT EXISTS settings (`key` TEXT PRIMARY KEY, value TEXT NOT NULL DEFAULT '')",
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		username   TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		revoked_at TEXT,
		created_at TEXT NOT NULL
	)`,
}
