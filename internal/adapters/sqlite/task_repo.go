package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// scanTask scans a task row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		clientID               sql.NullString
		clientName             sql.NullString
		department             sql.NullString
		postDate               sql.NullString
		deadline               sql.NullString
		reworkNote             sql.NullString
		reworkedAt             sql.NullString
		reworkedBy             sql.NullString
		createdBy              sql.NullString
		approvedAt             sql.NullString
		approvedBy             sql.NullString
		assignedToDepartmentAt sql.NullString
		assignedBy             sql.NullString
		assignedToDept         sql.NullString
		startedAt              sql.NullString
		postedAt               sql.NullString
		sentToProductionAt     sql.NullString
		lastUpdated            sql.NullString
		createdAt              time.Time
		updatedAt              time.Time
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.Key, &record.ClientKey, &clientID, &clientName, &record.Name, &department,
		&record.Status, &postDate, &deadline,
		&reworkNote, &reworkedAt, &reworkedBy,
		&record.Deleted, &record.SentToStrategy, &createdBy,
		&approvedAt, &approvedBy, &record.ApprovedForCalendar,
		&assignedToDepartmentAt, &assignedBy, &assignedToDept,
		&startedAt, &postedAt, &record.AddedToCalendar, &sentToProductionAt,
		&lastUpdated, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ClientID = clientID.String
	record.ClientName = clientName.String
	record.Department = department.String
	record.PostDate = postDate.String
	record.Deadline = deadline.String
	record.ReworkNote = reworkNote.String
	record.ReworkedAt = reworkedAt.String
	record.ReworkedBy = reworkedBy.String
	record.CreatedBy = createdBy.String
	record.ApprovedAt = approvedAt.String
	record.ApprovedBy = approvedBy.String
	record.AssignedToDepartmentAt = assignedToDepartmentAt.String
	record.AssignedBy = assignedBy.String
	record.AssignedToDept = assignedToDept.String
	record.StartedAt = startedAt.String
	record.PostedAt = postedAt.String
	record.SentToProductionAt = sentToProductionAt.String
	record.LastUpdated = lastUpdated.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

const taskSelectCols = "key, client_key, client_id, client_name, name, department, status, post_date, deadline, rework_note, reworked_at, reworked_by, deleted, sent_to_strategy, created_by, approved_at, approved_by, approved_for_calendar, assigned_to_department_at, assigned_by, assigned_to_dept, started_at, posted_at, added_to_calendar, sent_to_production_at, last_updated, created_at, updated_at"

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (key, client_key, client_id, client_name, name, department, status, post_date, deadline, sent_to_strategy, created_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		task.Key, task.ClientKey, nullable(task.ClientID), nullable(task.ClientName),
		task.Name, nullable(task.Department), task.Status,
		nullable(task.PostDate), nullable(task.Deadline),
		task.SentToStrategy, nullable(task.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByKey retrieves a task by its generated key.
func (r *TaskRepository) GetByKey(ctx context.Context, key string) (*secondary.TaskRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskSelectCols+" FROM tasks WHERE key = ?",
		key,
	)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: task %s", fault.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return record, nil
}

// List retrieves tasks matching the given filters.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskSelectCols + " FROM tasks WHERE 1=1"
	args := []any{}

	// Nil means unrestricted; an empty non-nil slice matches nothing.
	if filters.ClientKeys != nil {
		if len(filters.ClientKeys) == 0 {
			return nil, nil
		}
		placeholders := strings.Repeat("?, ", len(filters.ClientKeys))
		query += " AND client_key IN (" + placeholders[:len(placeholders)-2] + ")"
		for _, k := range filters.ClientKeys {
			args = append(args, k)
		}
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	if filters.Month != "" {
		query += " AND post_date LIKE ?"
		args = append(args, filters.Month+"%")
	}

	if !filters.IncludeDeleted {
		query += " AND deleted = 0"
	}

	query += " ORDER BY post_date ASC, key ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}

	return tasks, nil
}

// Update updates a task's editable fields. Empty fields are left unchanged;
// the post date and deadline change together.
func (r *TaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	query := "UPDATE tasks SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	if task.Name != "" {
		query += ", name = ?"
		args = append(args, task.Name)
	}

	if task.Department != "" {
		query += ", department = ?"
		args = append(args, task.Department)
	}

	if task.PostDate != "" {
		query += ", post_date = ?, deadline = ?"
		args = append(args, task.PostDate, task.Deadline)
	}

	query += " WHERE key = ?"
	args = append(args, task.Key)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: task %s", fault.ErrNotFound, task.Key)
	}

	return nil
}

// ApplyStatus stores a status change with its stamps. Empty stamp fields are
// left untouched.
func (r *TaskRepository) ApplyStatus(ctx context.Context, change *secondary.StatusChange) error {
	query := "UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{change.Status}

	if change.ApprovedAt != "" {
		query += ", approved_at = ?, approved_by = ?, approved_for_calendar = ?"
		args = append(args, change.ApprovedAt, change.ApprovedBy, change.ApprovedForCalendar)
	}
	if change.AssignedToDepartmentAt != "" {
		query += ", assigned_to_department_at = ?, assigned_by = ?, assigned_to_dept = ?"
		args = append(args, change.AssignedToDepartmentAt, change.AssignedBy, nullable(change.AssignedToDept))
	}
	if change.StartedAt != "" {
		query += ", started_at = ?"
		args = append(args, change.StartedAt)
	}
	if change.PostedAt != "" {
		query += ", posted_at = ?"
		args = append(args, change.PostedAt)
	}
	if change.LastUpdated != "" {
		query += ", last_updated = ?"
		args = append(args, change.LastUpdated)
	}

	query += " WHERE key = ?"
	args = append(args, change.Key)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: task %s", fault.ErrNotFound, change.Key)
	}

	return nil
}

// SetRework stores a rework cycle.
func (r *TaskRepository) SetRework(ctx context.Context, rework *secondary.ReworkChange) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET status = ?, rework_note = ?, reworked_by = ?, reworked_at = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?",
		rework.Status, rework.Note, rework.ReworkedBy, rework.ReworkedAt, rework.Key,
	)
	if err != nil {
		return fmt.Errorf("failed to set task rework: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: task %s", fault.ErrNotFound, rework.Key)
	}

	return nil
}

// MarkSentToCalendar stamps a task as placed on the production calendar.
func (r *TaskRepository) MarkSentToCalendar(ctx context.Context, key, stampedAt string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET added_to_calendar = 1, sent_to_production_at = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?",
		stampedAt, key,
	)
	if err != nil {
		return fmt.Errorf("failed to mark task sent to calendar: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: task %s", fault.ErrNotFound, key)
	}

	return nil
}

// SoftDelete flags a task as deleted. The row stays in storage.
func (r *TaskRepository) SoftDelete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE key = ?",
		key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: task %s", fault.ErrNotFound, key)
	}

	return nil
}

// NextKey returns a generated key for a new task.
func (r *TaskRepository) NextKey(ctx context.Context) (string, error) {
	return "task-" + uuid.NewString(), nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
