package model

import "time"

// Booking statuses.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking mirrors the 'bookings' table: a venue reserved by a user for a
// time slot.  BookedTime is the slot start used in rendered notifications.
type Booking struct {
	ID          uint64
	UserID      uint64
	VenueID     uint64
	BookedTime  time.Time
	Status      string
	TotalAmount float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Order mirrors the 'orders' table: a product purchase tied to a program or
// venue.  Kept deliberately thin; the interesting behavior is the post-commit
// notification fan-out it triggers.
type Order struct {
	ID          uint64
	UserID      uint64
	VenueID     *uint64
	Items       string
	TotalAmount float64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Donation mirrors the 'donations' table.
type Donation struct {
	ID        uint64
	UserID    uint64
	VenueID   *uint64
	Amount    float64
	Remarks   string
	CreatedAt time.Time
}
