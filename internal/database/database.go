package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection at the given path
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite is single-writer; keep the pool small
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	return &DB{db}, nil
}

// Initialize creates all required tables
func (db *DB) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS communications (
		id         TEXT PRIMARY KEY,
		timestamp  TEXT NOT NULL,
		content    TEXT NOT NULL,
		sender     TEXT NOT NULL,
		recipient  TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id               TEXT PRIMARY KEY,
		communication_id TEXT NOT NULL REFERENCES communications(id),
		when_at          TEXT NOT NULL,
		message          TEXT NOT NULL,
		priority         TEXT NOT NULL,
		acknowledged     INTEGER NOT NULL DEFAULT 0,
		dispatched       INTEGER NOT NULL DEFAULT 0,
		commitment_when  TEXT NOT NULL,
		commitment_who   TEXT NOT NULL,
		commitment_what  TEXT NOT NULL,
		commitment_where TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reminders_due
		ON reminders (acknowledged, when_at);
	CREATE INDEX IF NOT EXISTS idx_reminders_communication
		ON reminders (communication_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Println("✅ Database initialized successfully")
	return nil
}
