package repository

import (
	"context"
	"database/sql"

	"github.com/roshanmgr/venue-booking/internal/model"
)

// ProgramRepo persists programs (scheduled events at a venue).
type ProgramRepo struct{ DB *sql.DB }

func NewProgramRepo(db *sql.DB) *ProgramRepo { return &ProgramRepo{DB: db} }

const programCols = "id,venue_id,title,description,starts_at,ends_at,ticket_price,created_at,updated_at"

func scanProgram(scan func(dest ...any) error) (model.Program, error) {
	var p model.Program
	err := scan(&p.ID, &p.VenueID, &p.Title, &p.Description, &p.StartsAt,
		&p.EndsAt, &p.TicketPrice, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a program and returns its ID.
func (r *ProgramRepo) Create(ctx context.Context, p model.Program) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO programs (venue_id, title, description, starts_at, ends_at, ticket_price) VALUES (?,?,?,?,?,?)",
		p.VenueID, p.Title, p.Description, p.StartsAt, p.EndsAt, p.TicketPrice)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetByID fetches one program.
func (r *ProgramRepo) GetByID(ctx context.Context, id uint64) (model.Program, error) {
	p, err := scanProgram(r.DB.QueryRowContext(ctx,
		"SELECT "+programCols+" FROM programs WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// ListByVenue returns a venue's programs ordered by start time.
func (r *ProgramRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.Program, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+programCols+" FROM programs WHERE venue_id=? ORDER BY starts_at", venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Program
	for rows.Next() {
		p, err := scanProgram(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a program.
func (r *ProgramRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM programs WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
