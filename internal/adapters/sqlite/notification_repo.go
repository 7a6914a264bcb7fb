package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/secondary"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Append persists a new notification under a generated key.
func (r *NotificationRepository) Append(ctx context.Context, n *secondary.NotificationRecord) (string, error) {
	key := "notif-" + uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (key, recipient, type, client_name, title, message, priority) VALUES (?, ?, ?, ?, ?, ?, ?)",
		key, n.To, n.Type, nullable(n.ClientName), n.Title, nullable(n.Message), nullable(n.Priority),
	)
	if err != nil {
		return "", fmt.Errorf("failed to append notification: %w", err)
	}

	return key, nil
}

// ListByRecipient retrieves notifications for an employee, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, to string) ([]*secondary.NotificationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT key, recipient, type, client_name, title, message, priority, is_read, read_at, created_at FROM notifications WHERE recipient = ? ORDER BY created_at DESC, key DESC",
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*secondary.NotificationRecord
	for rows.Next() {
		var (
			clientName sql.NullString
			message    sql.NullString
			priority   sql.NullString
			readAt     sql.NullString
			createdAt  time.Time
		)

		record := &secondary.NotificationRecord{}
		err := rows.Scan(
			&record.Key, &record.To, &record.Type, &clientName,
			&record.Title, &message, &priority, &record.Read, &readAt, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		record.ClientName = clientName.String
		record.Message = message.String
		record.Priority = priority.String
		record.ReadAt = readAt.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		notifications = append(notifications, record)
	}

	return notifications, nil
}

// MarkRead stamps a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, key, readAt string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1, read_at = ? WHERE key = ?",
		readAt, key,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: notification %s", fault.ErrNotFound, key)
	}

	return nil
}

// Ensure NotificationRepository implements the interface
var _ secondary.NotificationRepository = (*NotificationRepository)(nil)
