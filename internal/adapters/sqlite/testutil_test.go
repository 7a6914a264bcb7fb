// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests: all setup uses db.GetSchemaSQL() so that tests run against the
// authoritative schema and drift fails immediately with "no such column".
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/stratdesk/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedClientRow inserts a test client and returns its key.
func seedClientRow(t *testing.T, db *sql.DB, key, email, stage string) string {
	t.Helper()
	if key == "" {
		key = "CL-001"
	}
	if stage == "" {
		stage = "information-gathering"
	}
	_, err := db.Exec(
		"INSERT INTO clients (key, client_id, name, assigned_to_employee, stage) VALUES (?, ?, ?, ?, ?)",
		key, key, "Client "+key, email, stage,
	)
	if err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
	return key
}

// seedTaskRow inserts a test task and returns its key.
func seedTaskRow(t *testing.T, db *sql.DB, key, clientKey, status string) string {
	t.Helper()
	if key == "" {
		key = "task-001"
	}
	if clientKey == "" {
		clientKey = "CL-001"
	}
	if status == "" {
		status = "pending-production"
	}
	_, err := db.Exec(
		"INSERT INTO tasks (key, client_key, client_name, name, department, status, post_date, deadline, sent_to_strategy) VALUES (?, ?, ?, ?, 'Video', ?, '2024-03-10', '2024-03-08', 1)",
		key, clientKey, "Client "+clientKey, "Task "+key, status,
	)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return key
}
