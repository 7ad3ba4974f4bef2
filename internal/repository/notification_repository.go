package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/roshanmgr/venue-booking/internal/model"
)

// NotificationRepo persists notification rows.  The fan-out batch insert is
// the one multi-row write and runs inside a single transaction so readers
// never observe a partial fan-out.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

const notifCols = "id,recipient_id,sender_id,title,message,type,status,booking_id,venue_id,created_at,read_at"

func scanNotification(scan func(dest ...any) error) (model.Notification, error) {
	var (
		n        model.Notification
		sender   sql.NullInt64
		booking  sql.NullInt64
		venue    sql.NullInt64
		readAt   sql.NullTime
		typ, sta string
	)
	err := scan(&n.ID, &n.RecipientID, &sender, &n.Title, &n.Message, &typ, &sta,
		&booking, &venue, &n.CreatedAt, &readAt)
	if err != nil {
		return n, err
	}
	n.Type = model.NotificationType(typ)
	n.Status = model.NotificationStatus(sta)
	if sender.Valid {
		v := uint64(sender.Int64)
		n.SenderID = &v
	}
	if booking.Valid {
		v := uint64(booking.Int64)
		n.BookingID = &v
	}
	if venue.Valid {
		v := uint64(venue.Int64)
		n.VenueID = &v
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return n, nil
}

// CreateBatch inserts all rows of one fan-out in a single transaction.
// Either every row is written or none is.  Passing an empty slice is a
// no-op.
func (r *NotificationRepo) CreateBatch(ctx context.Context, rows []model.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := "INSERT INTO notifications (recipient_id, sender_id, title, message, type, status, booking_id, venue_id) VALUES "
	args := make([]interface{}, 0, len(rows)*8)
	for i, n := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?,?,?)"
		args = append(args, n.RecipientID, nullID(n.SenderID), n.Title, n.Message,
			string(n.Type), string(n.Status), nullID(n.BookingID), nullID(n.VenueID))
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return tx.Commit()
}

func nullID(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// GetByID fetches a single notification.
func (r *NotificationRepo) GetByID(ctx context.Context, id uint64) (model.Notification, error) {
	n, err := scanNotification(r.DB.QueryRowContext(ctx,
		"SELECT "+notifCols+" FROM notifications WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	}
	return n, err
}

// ByRecipient lists a user's notifications newest-first.
func (r *NotificationRepo) ByRecipient(ctx context.Context, userID uint64) ([]model.Notification, error) {
	return r.list(ctx,
		"SELECT "+notifCols+" FROM notifications WHERE recipient_id=? ORDER BY created_at DESC, id DESC",
		userID)
}

// ByRecipientAndStatus lists a user's notifications in one status,
// newest-first.
func (r *NotificationRepo) ByRecipientAndStatus(ctx context.Context, userID uint64, status model.NotificationStatus) ([]model.Notification, error) {
	return r.list(ctx,
		"SELECT "+notifCols+" FROM notifications WHERE recipient_id=? AND status=? ORDER BY created_at DESC, id DESC",
		userID, string(status))
}

func (r *NotificationRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UnreadCount returns how many UNREAD rows a user owns.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id=? AND status=?",
		userID, string(model.StatusUnread)).Scan(&n)
	return n, err
}

// MarkRead transitions one row to READ and stamps read_at.  Ownership is
// checked by the service layer before this is called.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64, readAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET status=?, read_at=? WHERE id=?",
		string(model.StatusRead), readAt, id)
	return err
}

// MarkAllRead bulk-transitions every UNREAD row of a user in one statement.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64, readAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET status=?, read_at=? WHERE recipient_id=? AND status=?",
		string(model.StatusRead), readAt, userID, string(model.StatusUnread))
	return err
}

// Delete removes one row.
func (r *NotificationRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM notifications WHERE id=?", id)
	return err
}

// ClearAll removes every notification a user owns.
func (r *NotificationRepo) ClearAll(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM notifications WHERE recipient_id=?", userID)
	return err
}
