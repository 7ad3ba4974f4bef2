package repository

import (
	"context"
	"database/sql"

	"github.com/roshanmgr/venue-booking/internal/model"
)

// BookingRepo provides CRUD over bookings.  The router uses GetByID to
// backfill the booked time when the triggering event omits it.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = "id,user_id,venue_id,booked_time,status,total_amount,created_at,updated_at"

func scanBooking(scan func(dest ...any) error) (model.Booking, error) {
	var b model.Booking
	err := scan(&b.ID, &b.UserID, &b.VenueID, &b.BookedTime, &b.Status,
		&b.TotalAmount, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Create inserts a booking and returns its ID.
func (r *BookingRepo) Create(ctx context.Context, b model.Booking) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookings (user_id, venue_id, booked_time, status, total_amount) VALUES (?,?,?,?,?)",
		b.UserID, b.VenueID, b.BookedTime, b.Status, b.TotalAmount)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetByID fetches one booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	return b, err
}

// ListByUser returns a user's bookings newest-first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SetStatus transitions a booking's status.
func (r *BookingRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE bookings SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
