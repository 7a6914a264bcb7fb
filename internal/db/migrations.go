package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_rework_fields_to_tasks",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_calendar_fields_to_tasks",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_exclusion_status_to_clients",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_priority_to_notifications",
		Up:      migrationV4,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}

	// Create schema_version table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d: %s\n", migration.Version, migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(db); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

func migrationV1(db *sql.DB) error {
	stmts := []string{
		"ALTER TABLE tasks ADD COLUMN rework_note TEXT",
		"ALTER TABLE tasks ADD COLUMN reworked_at TEXT",
		"ALTER TABLE tasks ADD COLUMN reworked_by TEXT",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func migrationV2(db *sql.DB) error {
	stmts := []string{
		"ALTER TABLE tasks ADD COLUMN approved_for_calendar INTEGER NOT NULL DEFAULT 0",
		"ALTER TABLE tasks ADD COLUMN added_to_calendar INTEGER NOT NULL DEFAULT 0",
		"ALTER TABLE tasks ADD COLUMN sent_to_production_at TEXT",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func migrationV3(db *sql.DB) error {
	_, err := db.Exec("ALTER TABLE clients ADD COLUMN status TEXT CHECK(status IN ('inactive', 'disabled'))")
	return err
}

func migrationV4(db *sql.DB) error {
	_, err := db.Exec("ALTER TABLE notifications ADD COLUMN priority TEXT")
	return err
}
