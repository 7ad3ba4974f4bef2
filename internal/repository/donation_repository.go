package repository

import (
	"context"
	"database/sql"

	"github.com/roshanmgr/venue-booking/internal/model"
)

// DonationRepo persists donations.
type DonationRepo struct{ DB *sql.DB }

func NewDonationRepo(db *sql.DB) *DonationRepo { return &DonationRepo{DB: db} }

const donationCols = "id,user_id,venue_id,amount,remarks,created_at"

// Create inserts a donation and returns its ID.
func (r *DonationRepo) Create(ctx context.Context, d model.Donation) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO donations (user_id, venue_id, amount, remarks) VALUES (?,?,?,?)",
		d.UserID, nullID(d.VenueID), d.Amount, d.Remarks)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetByID fetches one donation.
func (r *DonationRepo) GetByID(ctx context.Context, id uint64) (model.Donation, error) {
	var d model.Donation
	var venue sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+donationCols+" FROM donations WHERE id=? LIMIT 1", id).
		Scan(&d.ID, &d.UserID, &venue, &d.Amount, &d.Remarks, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	if venue.Valid {
		v := uint64(venue.Int64)
		d.VenueID = &v
	}
	return d, err
}

// ListByUser returns a user's donations newest-first.
func (r *DonationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Donation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+donationCols+" FROM donations WHERE user_id=? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Donation
	for rows.Next() {
		var d model.Donation
		var venue sql.NullInt64
		if err := rows.Scan(&d.ID, &d.UserID, &venue, &d.Amount, &d.Remarks, &d.CreatedAt); err != nil {
			return nil, err
		}
		if venue.Valid {
			v := uint64(venue.Int64)
			d.VenueID = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
