package primary

import "context"

// NotificationService defines the primary port for the notification feed.
type NotificationService interface {
	// ListNotifications lists the session employee's notifications, newest
	// first.
	ListNotifications(ctx context.Context) ([]*Notification, error)

	// MarkRead marks one notification as read.
	MarkRead(ctx context.Context, key string) error
}

// Notification represents a notification at the port boundary.
type Notification struct {
	Key        string
	To         string
	Type       string
	ClientName string
	Title      string
	Message    string
	CreatedAt  string
	Read       bool
	ReadAt     string
	Priority   string
}

// Notification types produced by pipeline events.
const (
	NotificationCycleApproved = "cycle-approved"
	NotificationCycleRejected = "cycle-rejected"
	NotificationTaskRework    = "task-rework"
)
