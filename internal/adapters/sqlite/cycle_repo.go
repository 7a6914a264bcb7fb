package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/secondary"
)

// CycleRepository implements secondary.CycleRepository with SQLite. Both
// decisions run the task batch and the client reset in a single transaction,
// so a partial failure never leaves released tasks behind an unreset client.
type CycleRepository struct {
	db *sql.DB
}

// NewCycleRepository creates a new SQLite cycle repository.
func NewCycleRepository(db *sql.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

// ApproveCycle releases every non-deleted task of the client to its
// production department and resets the client's cycle.
func (r *CycleRepository) ApproveCycle(ctx context.Context, req *secondary.ApproveCycleRequest) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin cycle approval: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE tasks SET
			status = 'assigned-to-department',
			approved_at = ?, approved_by = ?, approved_for_calendar = 1,
			assigned_to_department_at = ?, assigned_by = ?, assigned_to_dept = department,
			updated_at = CURRENT_TIMESTAMP
		WHERE client_key = ? AND deleted = 0`,
		req.StampedAt, req.ApprovedBy, req.StampedAt, req.ApprovedBy, req.ClientKey,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to release tasks: %w", err)
	}
	released, _ := result.RowsAffected()

	clientResult, err := tx.ExecContext(ctx,
		`UPDATE clients SET
			stage = 'information-gathering',
			info_gathered_at = NULL, strategy_prepared_at = NULL,
			internal_approved_at = NULL, client_approved_at = NULL,
			completed_at = ?, last_updated = ?, updated_at = CURRENT_TIMESTAMP
		WHERE key = ?`,
		req.StampedAt, req.StampedAt, req.ClientKey,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset client cycle: %w", err)
	}
	if rows, _ := clientResult.RowsAffected(); rows == 0 {
		return 0, fmt.Errorf("%w: client %s", fault.ErrNotFound, req.ClientKey)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cycle approval: %w", err)
	}

	return int(released), nil
}

// RejectCycle resets the client's cycle without touching tasks.
func (r *CycleRepository) RejectCycle(ctx context.Context, req *secondary.RejectCycleRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cycle rejection: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE clients SET
			stage = 'information-gathering',
			info_gathered_at = NULL, strategy_prepared_at = NULL,
			internal_approved_at = NULL, client_approved_at = NULL,
			rejected_at = ?, rejected_by = ?, last_updated = ?, updated_at = CURRENT_TIMESTAMP
		WHERE key = ?`,
		req.StampedAt, req.RejectedBy, req.StampedAt, req.ClientKey,
	)
	if err != nil {
		return fmt.Errorf("failed to reset client cycle: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: client %s", fault.ErrNotFound, req.ClientKey)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cycle rejection: %w", err)
	}

	return nil
}

// Ensure CycleRepository implements the interface
var _ secondary.CycleRepository = (*CycleRepository)(nil)
