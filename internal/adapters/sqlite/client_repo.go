// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/secondary"
)

// ClientRepository implements secondary.ClientRepository with SQLite.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new SQLite client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// scanClient scans a client row into a ClientRecord.
func scanClient(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ClientRecord, error) {
	var (
		clientID           sql.NullString
		assignedToEmployee sql.NullString
		infoGatheredAt     sql.NullString
		strategyPreparedAt sql.NullString
		internalApprovedAt sql.NullString
		clientApprovedAt   sql.NullString
		status             sql.NullString
		lastUpdated        sql.NullString
		completedAt        sql.NullString
		rejectedAt         sql.NullString
		rejectedBy         sql.NullString
		createdAt          time.Time
		updatedAt          time.Time
	)

	record := &secondary.ClientRecord{}
	err := scanner.Scan(
		&record.Key, &clientID, &record.Name, &assignedToEmployee, &record.Stage,
		&infoGatheredAt, &strategyPreparedAt, &internalApprovedAt, &clientApprovedAt,
		&status, &lastUpdated, &completedAt, &rejectedAt, &rejectedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ClientID = clientID.String
	record.AssignedToEmployee = assignedToEmployee.String
	record.InfoGatheredAt = infoGatheredAt.String
	record.StrategyPreparedAt = strategyPreparedAt.String
	record.InternalApprovedAt = internalApprovedAt.String
	record.ClientApprovedAt = clientApprovedAt.String
	record.Status = status.String
	record.LastUpdated = lastUpdated.String
	record.CompletedAt = completedAt.String
	record.RejectedAt = rejectedAt.String
	record.RejectedBy = rejectedBy.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

const clientSelectCols = "key, client_id, name, assigned_to_employee, stage, info_gathered_at, strategy_prepared_at, internal_approved_at, client_approved_at, status, last_updated, completed_at, rejected_at, rejected_by, created_at, updated_at"

// nullable converts empty strings to SQL NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Create persists a new client.
func (r *ClientRepository) Create(ctx context.Context, client *secondary.ClientRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (key, client_id, name, assigned_to_employee, stage) VALUES (?, ?, ?, ?, ?)",
		client.Key, nullable(client.ClientID), client.Name, nullable(client.AssignedToEmployee), client.Stage,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetByKey retrieves a client by its canonical key.
func (r *ClientRepository) GetByKey(ctx context.Context, key string) (*secondary.ClientRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+clientSelectCols+" FROM clients WHERE key = ?",
		key,
	)

	record, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: client %s", fault.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return record, nil
}

// FindByIdentity resolves a client by external client ID first, then by name.
func (r *ClientRepository) FindByIdentity(ctx context.Context, clientID, clientName string) (*secondary.ClientRecord, error) {
	if clientID != "" {
		row := r.db.QueryRowContext(ctx,
			"SELECT "+clientSelectCols+" FROM clients WHERE client_id = ?",
			clientID,
		)
		record, err := scanClient(row)
		if err == nil {
			return record, nil
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to find client: %w", err)
		}
	}

	if clientName != "" {
		row := r.db.QueryRowContext(ctx,
			"SELECT "+clientSelectCols+" FROM clients WHERE name = ?",
			clientName,
		)
		record, err := scanClient(row)
		if err == nil {
			return record, nil
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to find client: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: client", fault.ErrNotFound)
}

// List retrieves clients matching the given filters.
func (r *ClientRepository) List(ctx context.Context, filters secondary.ClientFilters) ([]*secondary.ClientRecord, error) {
	query := "SELECT " + clientSelectCols + " FROM clients WHERE 1=1"
	args := []any{}

	if filters.AssignedToEmployee != "" {
		query += " AND assigned_to_employee = ?"
		args = append(args, filters.AssignedToEmployee)
	}

	if filters.Stage != "" {
		query += " AND stage = ?"
		args = append(args, filters.Stage)
	}

	if !filters.IncludeExcluded {
		query += " AND status IS NULL"
	}

	query += " ORDER BY key ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*secondary.ClientRecord
	for rows.Next() {
		record, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, record)
	}

	return clients, nil
}

// Assign sets the employee a client is assigned to.
func (r *ClientRepository) Assign(ctx context.Context, key, email string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE clients SET assigned_to_employee = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?",
		nullable(email), key,
	)
	if err != nil {
		return fmt.Errorf("failed to assign client: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: client %s", fault.ErrNotFound, key)
	}

	return nil
}

// AdvanceStage stores a mid-cycle stage transition. The completion stamp is
// written with COALESCE so a replayed transition keeps the original stamp.
func (r *ClientRepository) AdvanceStage(ctx context.Context, change *secondary.StageChange) error {
	stampCol, ok := stageStampColumns[change.CompletedStage]
	if !ok {
		return fmt.Errorf("unknown stage %q", change.CompletedStage)
	}

	query := fmt.Sprintf(
		"UPDATE clients SET stage = ?, %s = COALESCE(%s, ?), last_updated = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?",
		stampCol, stampCol,
	)
	result, err := r.db.ExecContext(ctx, query, change.Stage, change.StampedAt, change.StampedAt, change.Key)
	if err != nil {
		return fmt.Errorf("failed to advance client stage: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: client %s", fault.ErrNotFound, change.Key)
	}

	return nil
}

// stageStampColumns maps a completed stage to its stamp column. The column
// name is interpolated into SQL, so lookups outside this map are refused.
var stageStampColumns = map[string]string{
	"information-gathering": "info_gathered_at",
	"strategy-preparation":  "strategy_prepared_at",
	"internal-approval":     "internal_approved_at",
	"client-approval":       "client_approved_at",
}

// SetExclusion sets or clears the client's exclusion status.
func (r *ClientRepository) SetExclusion(ctx context.Context, key, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE clients SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?",
		nullable(status), key,
	)
	if err != nil {
		return fmt.Errorf("failed to set client exclusion: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: client %s", fault.ErrNotFound, key)
	}

	return nil
}

// Ensure ClientRepository implements the interface
var _ secondary.ClientRepository = (*ClientRepository)(nil)
