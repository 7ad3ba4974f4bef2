package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
)

type memNotifStore struct {
	rows map[uint64]model.Notification
}

func newMemNotifStore(rows ...model.Notification) *memNotifStore {
	m := &memNotifStore{rows: map[uint64]model.Notification{}}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *memNotifStore) GetByID(ctx context.Context, id uint64) (model.Notification, error) {
	if n, ok := m.rows[id]; ok {
		return n, nil
	}
	return model.Notification{}, repository.ErrNotFound
}

func (m *memNotifStore) ByRecipient(ctx context.Context, userID uint64) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.rows {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifStore) ByRecipientAndStatus(ctx context.Context, userID uint64, status model.NotificationStatus) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.rows {
		if n.RecipientID == userID && n.Status == status {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifStore) UnreadCount(ctx context.Context, userID uint64) (int, error) {
	count := 0
	for _, n := range m.rows {
		if n.RecipientID == userID && n.Status == model.StatusUnread {
			count++
		}
	}
	return count, nil
}

func (m *memNotifStore) MarkRead(ctx context.Context, id uint64, readAt time.Time) error {
	n, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Status = model.StatusRead
	n.ReadAt = &readAt
	m.rows[id] = n
	return nil
}

func (m *memNotifStore) MarkAllRead(ctx context.Context, userID uint64, readAt time.Time) error {
	for id, n := range m.rows {
		if n.RecipientID == userID && n.Status == model.StatusUnread {
			n.Status = model.StatusRead
			n.ReadAt = &readAt
			m.rows[id] = n
		}
	}
	return nil
}

func (m *memNotifStore) Delete(ctx context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memNotifStore) ClearAll(ctx context.Context, userID uint64) error {
	for id, n := range m.rows {
		if n.RecipientID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

func TestMarkReadRejectsNonOwner(t *testing.T) {
	store := newMemNotifStore(model.Notification{ID: 1, RecipientID: 7, Status: model.StatusUnread})
	svc := NewNotificationService(store)

	err := svc.MarkRead(context.Background(), 1, 8)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.Equal(t, model.StatusUnread, store.rows[1].Status)

	require.NoError(t, svc.MarkRead(context.Background(), 1, 7))
	assert.Equal(t, model.StatusRead, store.rows[1].Status)
	assert.NotNil(t, store.rows[1].ReadAt)
}

func TestDeleteRejectsNonOwner(t *testing.T) {
	store := newMemNotifStore(model.Notification{ID: 1, RecipientID: 7, Status: model.StatusUnread})
	svc := NewNotificationService(store)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, 8), repository.ErrForbidden)
	assert.Len(t, store.rows, 1)

	require.NoError(t, svc.Delete(context.Background(), 1, 7))
	assert.Empty(t, store.rows)
}

func TestMarkReadMissingRowIsNotFound(t *testing.T) {
	svc := NewNotificationService(newMemNotifStore())
	assert.ErrorIs(t, svc.MarkRead(context.Background(), 99, 7), repository.ErrNotFound)
}

func TestUnreadCountTracksReads(t *testing.T) {
	store := newMemNotifStore(
		model.Notification{ID: 1, RecipientID: 7, Status: model.StatusUnread},
		model.Notification{ID: 2, RecipientID: 7, Status: model.StatusUnread},
		model.Notification{ID: 3, RecipientID: 7, Status: model.StatusUnread},
		model.Notification{ID: 4, RecipientID: 8, Status: model.StatusUnread},
	)
	svc := NewNotificationService(store)

	n, err := svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, svc.MarkRead(context.Background(), 2, 7))
	n, err = svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Other users' rows are untouched.
	n, err = svc.UnreadCount(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMarkAllReadStampsReadAt(t *testing.T) {
	store := newMemNotifStore(
		model.Notification{ID: 1, RecipientID: 7, Status: model.StatusUnread},
		model.Notification{ID: 2, RecipientID: 7, Status: model.StatusRead},
		model.Notification{ID: 3, RecipientID: 7, Status: model.StatusUnread},
	)
	svc := NewNotificationService(store)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	require.NoError(t, svc.MarkAllRead(context.Background(), 7))

	n, err := svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.NotNil(t, store.rows[1].ReadAt)
	assert.Equal(t, at, *store.rows[1].ReadAt)
}

func TestClearAllRemovesOnlyOwnRows(t *testing.T) {
	store := newMemNotifStore(
		model.Notification{ID: 1, RecipientID: 7},
		model.Notification{ID: 2, RecipientID: 7},
		model.Notification{ID: 3, RecipientID: 8},
	)
	svc := NewNotificationService(store)

	require.NoError(t, svc.ClearAll(context.Background(), 7))
	assert.Len(t, store.rows, 1)
	assert.Equal(t, uint64(8), store.rows[3].RecipientID)
}

func TestListForByStatusFilters(t *testing.T) {
	store := newMemNotifStore(
		model.Notification{ID: 1, RecipientID: 7, Status: model.StatusUnread},
		model.Notification{ID: 2, RecipientID: 7, Status: model.StatusRead},
	)
	svc := NewNotificationService(store)

	got, err := svc.ListForByStatus(context.Background(), 7, model.StatusRead)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].ID)
}
