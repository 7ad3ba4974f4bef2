package model

import "time"

// Venue mirrors the 'venues' table.  Partners are linked to venues through
// the venue_partners join table; the link drives notification fan-out.
type Venue struct {
	ID          uint64
	Name        string
	Location    string
	Capacity    uint32
	PricePerDay float64
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Program mirrors the 'programs' table: a scheduled event hosted at a venue.
type Program struct {
	ID          uint64
	VenueID     uint64
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	TicketPrice float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
