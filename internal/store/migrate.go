package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest schema version supported by the migrator.
const SchemaVersion = 1

// Migrate ensures the SQLite schema exists and is upgraded to SchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS daily_logs (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL UNIQUE,
			day_number INTEGER NOT NULL,
			tasks TEXT NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			photo_base64 TEXT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create daily_logs table: %w", err)
	}

	// Single-row table; the check constraint keeps it that way.
	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS challenge_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			start_date TEXT NOT NULL,
			current_day INTEGER NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create challenge_state table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS task_definitions (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL UNIQUE,
			label TEXT NOT NULL,
			subtitle TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			sort INTEGER NOT NULL DEFAULT 0,
			builtin INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create task_definitions table: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?);`, SchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}
