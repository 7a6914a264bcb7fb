package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/primary"
	"github.com/example/stratdesk/internal/ports/secondary"
	"github.com/example/stratdesk/internal/session"
)

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	notifRepo secondary.NotificationRepository
	sess      *session.Context
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifRepo secondary.NotificationRepository, sess *session.Context) *NotificationServiceImpl {
	return &NotificationServiceImpl{notifRepo: notifRepo, sess: sess}
}

// ListNotifications lists the session employee's notifications, newest first.
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context) ([]*primary.Notification, error) {
	if s.notifRepo == nil {
		return nil, fault.ErrPersistenceUnavailable
	}

	records, err := s.notifRepo.ListByRecipient(ctx, s.sess.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]*primary.Notification, len(records))
	for i, r := range records {
		notifications[i] = &primary.Notification{
			Key:        r.Key,
			To:         r.To,
			Type:       r.Type,
			ClientName: r.ClientName,
			Title:      r.Title,
			Message:    r.Message,
			CreatedAt:  r.CreatedAt,
			Read:       r.Read,
			ReadAt:     r.ReadAt,
			Priority:   r.Priority,
		}
	}
	return notifications, nil
}

// MarkRead marks one notification as read.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, key string) error {
	if s.notifRepo == nil {
		return fault.ErrPersistenceUnavailable
	}
	if err := s.notifRepo.MarkRead(ctx, key, now()); err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: mark read: %v", fault.ErrWriteFailed, err)
	}
	return nil
}

// Ensure NotificationServiceImpl implements the interface
var _ primary.NotificationService = (*NotificationServiceImpl)(nil)
