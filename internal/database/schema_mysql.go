package database

// mysqlSchema mirrors the sqlite DDL for the MySQL backend. Timestamps
// stay VARCHAR in the canonical text layout so queries behave identically
// on both dialects.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username      VARCHAR(64) PRIMARY KEY,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(255) NOT NULL DEFAULT '',
		role          VARCHAR(16) NOT NULL DEFAULT 'user',
		email         VARCHAR(255) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS slots (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name         VARCHAR(64) NOT NULL UNIQUE,
		type_allowed VARCHAR(16) NOT NULL,
		status       VARCHAR(16) NOT NULL DEFAULT 'free',
		hourly_rate  DOUBLE NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		number         VARCHAR(32) NOT NULL,
		type           VARCHAR(16) NOT NULL,
		username       VARCHAR(64) NOT NULL DEFAULT '',
		slot_id        BIGINT UNSIGNED NULL,
		entry_time     VARCHAR(19) NOT NULL,
		exit_time      VARCHAR(19) NULL,
		payment_method VARCHAR(16) NOT NULL DEFAULT 'cash',
		INDEX idx_vehicles_number (number)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		vehicle_number VARCHAR(32) NOT NULL,
		amount         DOUBLE NOT NULL,
		paid_at        VARCHAR(19) NOT NULL,
		duration_hours DOUBLE NOT NULL,
		generated_by   VARCHAR(64) NOT NULL DEFAULT '',
		receipt_path   VARCHAR(512) NOT NULL DEFAULT '',
		payment_method VARCHAR(16) NOT NULL DEFAULT 'cash'
	)`,
	"CREATE TABLE IF NOT EXISTS settings (`key` VARCHAR(64) PRIMARY KEY, value TEXT NOT NULL)",
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username   VARCHAR(64) NOT NULL,
		token_hash VARCHAR(64) NOT NULL UNIQUE,
		expires_at VARCHAR(19) NOT NULL,
		revoked_at VARCHAR(19) NULL,
		created_at VARCHAR(19) NOT NULL
	)`,
}
