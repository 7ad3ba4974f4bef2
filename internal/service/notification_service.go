package service

import (
	"context"
	"time"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
)

// NotificationStore is the slice of NotificationRepo the management service
// needs.
type NotificationStore interface {
	GetByID(ctx context.Context, id uint64) (model.Notification, error)
	ByRecipient(ctx context.Context, userID uint64) ([]model.Notification, error)
	ByRecipientAndStatus(ctx context.Context, userID uint64, status model.NotificationStatus) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID uint64) (int, error)
	MarkRead(ctx context.Context, id uint64, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID uint64, readAt time.Time) error
	Delete(ctx context.Context, id uint64) error
	ClearAll(ctx context.Context, userID uint64) error
}

// NotificationService wraps the store with the ownership checks: a
// notification may only be read, archived or deleted by its recipient.
type NotificationService struct {
	Store NotificationStore
	now   func() time.Time
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{Store: store}
}

func (s *NotificationService) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// ListFor returns a user's notifications newest-first.
func (s *NotificationService) ListFor(ctx context.Context, userID uint64) ([]model.Notification, error) {
	return s.Store.ByRecipient(ctx, userID)
}

// ListForByStatus filters a user's notifications by status.
func (s *NotificationService) ListForByStatus(ctx context.Context, userID uint64, status model.NotificationStatus) ([]model.Notification, error) {
	return s.Store.ByRecipientAndStatus(ctx, userID, status)
}

// UnreadCount returns the user's unread total.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int, error) {
	return s.Store.UnreadCount(ctx, userID)
}

// MarkRead transitions one notification to READ.  Requests by anyone other
// than the recipient fail with ErrForbidden.
func (s *NotificationService) MarkRead(ctx context.Context, id, requestingUserID uint64) error {
	n, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != requestingUserID {
		return repository.ErrForbidden
	}
	return s.Store.MarkRead(ctx, id, s.clock())
}

// MarkAllRead bulk-transitions the user's unread notifications.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.Store.MarkAllRead(ctx, userID, s.clock())
}

// Delete removes one notification, recipient-only.
func (s *NotificationService) Delete(ctx context.Context, id, requestingUserID uint64) error {
	n, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != requestingUserID {
		return repository.ErrForbidden
	}
	return s.Store.Delete(ctx, id)
}

// ClearAll removes every notification the user owns.
func (s *NotificationService) ClearAll(ctx context.Context, userID uint64) error {
	return s.Store.ClearAll(ctx, userID)
}
