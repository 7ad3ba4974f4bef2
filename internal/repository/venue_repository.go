package repository

import (
	"context"
	"database/sql"

	"github.com/roshanmgr/venue-booking/internal/model"
)

// VenueRepo provides CRUD over venues plus the partner-link queries the
// notification router depends on.  Partners are linked through the
// venue_partners join table.
type VenueRepo struct{ DB *sql.DB }

func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{DB: db} }

const venueCols = "id,name,location,capacity,price_per_day,image_url,created_at,updated_at"

func scanVenue(scan func(dest ...any) error) (model.Venue, error) {
	var v model.Venue
	var img sql.NullString
	err := scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.PricePerDay,
		&img, &v.CreatedAt, &v.UpdatedAt)
	if img.Valid {
		s := img.String
		v.ImageURL = &s
	}
	return v, err
}

// Create inserts a venue and returns its ID.
func (r *VenueRepo) Create(ctx context.Context, v model.Venue) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO venues (name, location, capacity, price_per_day, image_url) VALUES (?,?,?,?,?)",
		v.Name, v.Location, v.Capacity, v.PricePerDay, v.ImageURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetByID fetches a venue.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
	v, err := scanVenue(r.DB.QueryRowContext(ctx,
		"SELECT "+venueCols+" FROM venues WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return v, ErrNotFound
	}
	return v, err
}

// List returns all venues.  This feeds the public, cacheable listing route.
func (r *VenueRepo) List(ctx context.Context) ([]model.Venue, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+venueCols+" FROM venues ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update overwrites the mutable venue fields.
func (r *VenueRepo) Update(ctx context.Context, v model.Venue) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE venues SET name=?, location=?, capacity=?, price_per_day=?, image_url=? WHERE id=?",
		v.Name, v.Location, v.Capacity, v.PricePerDay, v.ImageURL, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a venue.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM venues WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkPartner associates a partner principal with a venue.  The link is what
// routes venue events into the partner's notification feed.
func (r *VenueRepo) LinkPartner(ctx context.Context, venueID, partnerID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO venue_partners (venue_id, user_id) VALUES (?,?)",
		venueID, partnerID)
	return err
}

// PartnersForVenue returns every partner principal linked to the venue.
func (r *VenueRepo) PartnersForVenue(ctx context.Context, venueID uint64) ([]model.Principal, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.id, u.email, u.role, u.full_name, u.status
		   FROM users u
		   JOIN venue_partners vp ON vp.user_id = u.id
		  WHERE vp.venue_id=?`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Principal
	for rows.Next() {
		var u model.Principal
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &role, &u.FullName, &u.Status); err != nil {
			return nil, err
		}
		u.Role = model.Role(role)
		out = append(out, u)
	}
	return out, rows.Err()
}
