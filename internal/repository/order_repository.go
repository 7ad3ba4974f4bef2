package repository

import (
	"context"
	"database/sql"

	"github.com/roshanmgr/venue-booking/internal/model"
)

// OrderRepo persists orders.  Pass-through plumbing: the interesting logic
// is in the post-commit side effects the order flow triggers.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderCols = "id,user_id,venue_id,items,total_amount,status,created_at,updated_at"

func scanOrder(scan func(dest ...any) error) (model.Order, error) {
	var o model.Order
	var venue sql.NullInt64
	err := scan(&o.ID, &o.UserID, &venue, &o.Items, &o.TotalAmount, &o.Status,
		&o.CreatedAt, &o.UpdatedAt)
	if venue.Valid {
		v := uint64(venue.Int64)
		o.VenueID = &v
	}
	return o, err
}

// Create inserts an order and returns its ID.
func (r *OrderRepo) Create(ctx context.Context, o model.Order) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO orders (user_id, venue_id, items, total_amount, status) VALUES (?,?,?,?,?)",
		o.UserID, nullID(o.VenueID), o.Items, o.TotalAmount, o.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetByID fetches one order.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	return o, err
}

// ListByUser returns a user's orders newest-first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE user_id=? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
