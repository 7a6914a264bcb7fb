package db

// SchemaSQL is the complete schema for fresh installs. It reflects the
// current state after all migrations.
//
// This is the single source of truth for the database schema: repository
// tests load it through GetSchemaSQL() instead of hardcoding CREATE TABLE
// statements, so column drift fails tests immediately with "no such column".
//
// When adding columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Clients of the strategy department. The key is canonical: the external
-- clientId when present, the name otherwise, fixed once at ingestion.
CREATE TABLE IF NOT EXISTS clients (
	key TEXT PRIMARY KEY,
	client_id TEXT,
	name TEXT NOT NULL,
	assigned_to_employee TEXT,
	stage TEXT NOT NULL CHECK(stage IN ('information-gathering', 'strategy-preparation', 'internal-approval', 'client-approval')) DEFAULT 'information-gathering',
	info_gathered_at TEXT,
	strategy_prepared_at TEXT,
	internal_approved_at TEXT,
	client_approved_at TEXT,
	status TEXT CHECK(status IN ('inactive', 'disabled')),
	last_updated TEXT,
	completed_at TEXT,
	rejected_at TEXT,
	rejected_by TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_clients_employee ON clients(assigned_to_employee);
CREATE INDEX IF NOT EXISTS idx_clients_client_id ON clients(client_id);
CREATE INDEX IF NOT EXISTS idx_clients_name ON clients(name);

-- Content-production tasks. Rows are never hard-deleted.
CREATE TABLE IF NOT EXISTS tasks (
	key TEXT PRIMARY KEY,
	client_key TEXT NOT NULL,
	client_id TEXT,
	client_name TEXT,
	name TEXT NOT NULL,
	department TEXT,
	status TEXT NOT NULL DEFAULT 'pending-production',
	post_date TEXT,
	deadline TEXT,
	rework_note TEXT,
	reworked_at TEXT,
	reworked_by TEXT,
	deleted INTEGER NOT NULL DEFAULT 0,
	sent_to_strategy INTEGER NOT NULL DEFAULT 0,
	created_by TEXT,
	approved_at TEXT,
	approved_by TEXT,
	approved_for_calendar INTEGER NOT NULL DEFAULT 0,
	assigned_to_department_at TEXT,
	assigned_by TEXT,
	assigned_to_dept TEXT,
	started_at TEXT,
	posted_at TEXT,
	added_to_calendar INTEGER NOT NULL DEFAULT 0,
	sent_to_production_at TEXT,
	last_updated TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (client_key) REFERENCES clients(key)
);

CREATE INDEX IF NOT EXISTS idx_tasks_client_key ON tasks(client_key);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_post_date ON tasks(post_date);

-- In-app notifications addressed by employee email.
CREATE TABLE IF NOT EXISTS notifications (
	key TEXT PRIMARY KEY,
	recipient TEXT NOT NULL,
	type TEXT NOT NULL,
	client_name TEXT,
	title TEXT NOT NULL,
	message TEXT,
	priority TEXT,
	is_read INTEGER NOT NULL DEFAULT 0,
	read_at TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient);
`

// InitSchema creates the database schema.
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// A missing schema_version table means a fresh install: create the
	// modern schema directly and mark every migration as applied.
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		var oldTableCount int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('clients', 'tasks')").Scan(&oldTableCount)
		if err != nil {
			return err
		}

		if oldTableCount > 0 {
			// Pre-versioning database - run migrations to upgrade.
			return RunMigrations()
		}

		if _, err := db.Exec(SchemaSQL); err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for _, migration := range migrations {
			if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations.
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
