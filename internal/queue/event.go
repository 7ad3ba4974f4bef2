// Package queue defines the message payloads exchanged over RabbitMQ and
// the background consumer that turns them into the audit trail.
package queue

// NotificationDispatchedEvent is published after a fan-out commits.  It
// carries enough context for downstream consumers to log or analyze the
// dispatch without querying the primary database.
type NotificationDispatchedEvent struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	RecipientIDs []uint64 `json:"recipient_ids"`
	SenderID     *uint64  `json:"sender_id,omitempty"`
	BookingID    *uint64  `json:"booking_id,omitempty"`
	VenueID      *uint64  `json:"venue_id,omitempty"`
	VenueName    string   `json:"venue_name,omitempty"`
	TotalAmount  float64  `json:"total_amount"`
	DispatchedAt string   `json:"dispatched_at"`
}

// BookingConfirmedEvent is published when a booking is created and paid.
type BookingConfirmedEvent struct {
	BookingID   uint64  `json:"booking_id"`
	UserID      uint64  `json:"user_id"`
	VenueID     uint64  `json:"venue_id"`
	VenueName   string  `json:"venue_name"`
	BookedTime  string  `json:"booked_time"`
	TotalAmount float64 `json:"total_amount"`
	ConfirmedAt string  `json:"confirmed_at"`
}
