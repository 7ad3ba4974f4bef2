package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
)

// PrincipalSource resolves recipients for the fan-out.
type PrincipalSource interface {
	GetByID(ctx context.Context, id uint64) (model.Principal, error)
	Admins(ctx context.Context) ([]model.Principal, error)
}

// VenueSource resolves venue names and partner links.
type VenueSource interface {
	GetByID(ctx context.Context, id uint64) (model.Venue, error)
	PartnersForVenue(ctx context.Context, venueID uint64) ([]model.Principal, error)
}

// BookingSource backfills booked times from booking ids.
type BookingSource interface {
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
}

// NotificationSink persists one fan-out atomically.
type NotificationSink interface {
	CreateBatch(ctx context.Context, rows []model.Notification) error
}

// NotificationRouter expands a triggering event into role-specific
// notification rows for the primary recipient, the partners linked to the
// event's venue and every admin, and persists them as one batch.
type NotificationRouter struct {
	Users    PrincipalSource
	Venues   VenueSource
	Bookings BookingSource
	Sink     NotificationSink
}

func NewNotificationRouter(users PrincipalSource, venues VenueSource, bookings BookingSource, sink NotificationSink) *NotificationRouter {
	return &NotificationRouter{Users: users, Venues: venues, Bookings: bookings, Sink: sink}
}

// Dispatch runs the fan-out.  The primary recipient must exist or the whole
// operation fails with nothing written; venue/booking backfill lookups are
// best-effort and only degrade the rendered text.  The recipient set is
// deliberately not deduplicated: a primary recipient who is also an admin
// gets two rows for one event.
func (r *NotificationRouter) Dispatch(ctx context.Context, ev model.NotificationEvent) ([]model.Notification, error) {
	typ, err := model.ParseNotificationType(ev.Type)
	if err != nil {
		return nil, err
	}

	primary, err := r.Users.GetByID(ctx, ev.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("resolve recipient %d: %w", ev.RecipientID, err)
	}

	var sender *model.Principal
	if ev.SenderID != nil {
		if s, err := r.Users.GetByID(ctx, *ev.SenderID); err == nil {
			sender = &s
		} else {
			log.Printf("notify: sender %d not found, rendering generic actor", *ev.SenderID)
		}
	}

	// Backfill denormalized fields the caller left empty.
	if ev.VenueName == "" && ev.VenueID != nil {
		if v, err := r.Venues.GetByID(ctx, *ev.VenueID); err == nil {
			ev.VenueName = v.Name
		}
	}
	if ev.BookedTime == "" && ev.BookingID != nil {
		if b, err := r.Bookings.GetByID(ctx, *ev.BookingID); err == nil {
			ev.BookedTime = b.BookedTime.UTC().Format("2006-01-02 15:04")
		}
	}

	recipients := []model.Principal{primary}
	if ev.VenueID != nil {
		partners, err := r.Venues.PartnersForVenue(ctx, *ev.VenueID)
		if err != nil {
			return nil, fmt.Errorf("resolve partners for venue %d: %w", *ev.VenueID, err)
		}
		recipients = append(recipients, partners...)
	}
	admins, err := r.Users.Admins(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve admins: %w", err)
	}
	recipients = append(recipients, admins...)

	rows := make([]model.Notification, 0, len(recipients))
	for i, rec := range recipients {
		msg := renderMessage(rec.Role, typ, sender, ev)
		if i == 0 && ev.Message != "" {
			msg = ev.Message
		}
		rows = append(rows, model.Notification{
			RecipientID: rec.ID,
			SenderID:    ev.SenderID,
			Title:       ev.Title,
			Message:     msg,
			Type:        typ,
			Status:      model.StatusUnread,
			BookingID:   ev.BookingID,
			VenueID:     ev.VenueID,
		})
	}
	if err := r.Sink.CreateBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("persist fan-out: %w", err)
	}
	return rows, nil
}

// IsNotFound reports whether a dispatch failure was caused by a missing
// primary recipient.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
