package model

import (
	"fmt"
	"strings"
	"time"
)

// NotificationType is the closed set of lifecycle events that may produce a
// notification fan-out.  Dispatching an event whose type does not parse into
// this set fails the whole operation.
type NotificationType string

const (
	TypeBookingCreated   NotificationType = "BOOKING_CREATED"
	TypeBookingCancelled NotificationType = "BOOKING_CANCELLED"
	TypeOrderPlaced      NotificationType = "ORDER_PLACED"
	TypePaymentReceived  NotificationType = "PAYMENT_RECEIVED"
	TypeDonationReceived NotificationType = "DONATION_RECEIVED"
	TypeSystem           NotificationType = "SYSTEM"
)

// ParseNotificationType validates an event type string.
func ParseNotificationType(s string) (NotificationType, error) {
	switch t := NotificationType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeBookingCreated, TypeBookingCancelled, TypeOrderPlaced,
		TypePaymentReceived, TypeDonationReceived, TypeSystem:
		return t, nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}

// NotificationStatus moves forward only: UNREAD -> READ -> ARCHIVED.
type NotificationStatus string

const (
	StatusUnread   NotificationStatus = "UNREAD"
	StatusRead     NotificationStatus = "READ"
	StatusArchived NotificationStatus = "ARCHIVED"
)

// ParseNotificationStatus validates a status string from a route parameter.
func ParseNotificationStatus(s string) (NotificationStatus, error) {
	switch st := NotificationStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusUnread, StatusRead, StatusArchived:
		return st, nil
	}
	return "", fmt.Errorf("unknown notification status %q", s)
}

// Notification mirrors the 'notifications' table.  A row is owned by its
// recipient: only the recipient may mark it read, archive it or delete it.
// SenderID is nil for system-generated notifications.  BookingID and VenueID
// are loose correlation references, not foreign keys.
type Notification struct {
	ID          uint64
	RecipientID uint64
	SenderID    *uint64
	Title       string
	Message     string
	Type        NotificationType
	Status      NotificationStatus
	BookingID   *uint64
	VenueID     *uint64
	CreatedAt   time.Time
	ReadAt      *time.Time
}

// NotificationEvent is the transient input to the fan-out router.  It is
// never persisted as such; the router expands it into one Notification row
// per resolved recipient.  Message, when non-empty, overrides the rendered
// text for the primary recipient only.
type NotificationEvent struct {
	RecipientID uint64   `json:"recipientId"`
	SenderID    *uint64  `json:"senderId,omitempty"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Message     string   `json:"message,omitempty"`
	BookingID   *uint64  `json:"bookingId,omitempty"`
	VenueID     *uint64  `json:"venueId,omitempty"`
	VenueName   string   `json:"venueName,omitempty"`
	BookedTime  string   `json:"bookedTime,omitempty"`
	TotalAmount *float64 `json:"totalAmount,omitempty"`
}
