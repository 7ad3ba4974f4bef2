package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
)

// ----- fakes -----

type memDirectory struct {
	users map[uint64]model.Principal
}

func (d *memDirectory) GetByID(ctx context.Context, id uint64) (model.Principal, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return model.Principal{}, repository.ErrNotFound
}

func (d *memDirectory) Admins(ctx context.Context) ([]model.Principal, error) {
	var out []model.Principal
	for _, u := range d.users {
		if u.Role == model.RoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

type memVenues struct {
	venues   map[uint64]model.Venue
	partners map[uint64][]model.Principal
}

func (v *memVenues) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
	if ven, ok := v.venues[id]; ok {
		return ven, nil
	}
	return model.Venue{}, repository.ErrNotFound
}

func (v *memVenues) PartnersForVenue(ctx context.Context, venueID uint64) ([]model.Principal, error) {
	return v.partners[venueID], nil
}

type memBookings struct {
	bookings map[uint64]model.Booking
}

func (b *memBookings) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	if bk, ok := b.bookings[id]; ok {
		return bk, nil
	}
	return model.Booking{}, repository.ErrNotFound
}

type memSink struct {
	batches [][]model.Notification
	fail    error
}

func (s *memSink) CreateBatch(ctx context.Context, rows []model.Notification) error {
	if s.fail != nil {
		return s.fail
	}
	s.batches = append(s.batches, rows)
	return nil
}

func (s *memSink) all() []model.Notification {
	var out []model.Notification
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func u64(v uint64) *uint64   { return &v }
func f64(v float64) *float64 { return &v }

func routerFixture() (*NotificationRouter, *memSink) {
	dir := &memDirectory{users: map[uint64]model.Principal{
		1: {ID: 1, Role: model.RoleAttendee, FullName: "Asha Rai"},
		2: {ID: 2, Role: model.RolePartner, FullName: "Binod Karki"},
		3: {ID: 3, Role: model.RolePartner, FullName: "Chitra Lama"},
		4: {ID: 4, Role: model.RoleAdmin, FullName: "Admin One"},
		5: {ID: 5, Role: model.RoleAdmin, FullName: "Admin Two"},
		6: {ID: 6, Role: model.RoleAdmin, FullName: "Admin Three"},
	}}
	venues := &memVenues{
		venues: map[uint64]model.Venue{10: {ID: 10, Name: "City Hall"}},
		partners: map[uint64][]model.Principal{
			10: {dir.users[2], dir.users[3]},
		},
	}
	bookings := &memBookings{bookings: map[uint64]model.Booking{
		100: {ID: 100, VenueID: 10, BookedTime: time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)},
	}}
	sink := &memSink{}
	return NewNotificationRouter(dir, venues, bookings, sink), sink
}

// ----- tests -----

func TestDispatchFansOutToPrimaryPartnersAndAdmins(t *testing.T) {
	r, sink := routerFixture()

	rows, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 1,
		SenderID:    u64(1),
		Title:       "Booking confirmed",
		Type:        "BOOKING_CREATED",
		VenueID:     u64(10),
		VenueName:   "City Hall",
		BookedTime:  "2026-03-14 18:30",
		TotalAmount: f64(500),
	})
	require.NoError(t, err)

	// 1 primary + 2 venue partners + 3 admins.
	require.Len(t, rows, 6)
	assert.Len(t, sink.all(), 6)

	perUser := map[uint64][]model.Notification{}
	for _, n := range rows {
		perUser[n.RecipientID] = append(perUser[n.RecipientID], n)
	}
	assert.Equal(t, "Your booking for City Hall on 2026-03-14 18:30 has been confirmed.", perUser[1][0].Message)
	assert.Equal(t, "Asha Rai booked City Hall for 2026-03-14 18:30.", perUser[2][0].Message)
	assert.Equal(t, "New booking by Asha Rai at City Hall for Rs. 500.00 requires attention.", perUser[4][0].Message)

	for _, n := range rows {
		assert.Equal(t, model.StatusUnread, n.Status)
		assert.Equal(t, model.TypeBookingCreated, n.Type)
		assert.Equal(t, "Booking confirmed", n.Title)
	}
}

func TestDispatchDoesNotDeduplicateRecipients(t *testing.T) {
	r, sink := routerFixture()

	// Primary recipient is an admin, so they appear once as primary and once
	// in the admin sweep.
	rows, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 4,
		Title:       "Payment",
		Type:        "PAYMENT_RECEIVED",
		TotalAmount: f64(75),
	})
	require.NoError(t, err)

	count := 0
	for _, n := range rows {
		if n.RecipientID == 4 {
			count++
		}
	}
	assert.Equal(t, 2, count)
	assert.Len(t, sink.all(), len(rows))
}

func TestDispatchMissingPrimaryWritesNothing(t *testing.T) {
	r, sink := routerFixture()

	_, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 999,
		Title:       "ghost",
		Type:        "SYSTEM",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, sink.all())
}

func TestDispatchUnknownTypeFails(t *testing.T) {
	r, sink := routerFixture()

	_, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 1,
		Title:       "weird",
		Type:        "SOMETHING_ELSE",
	})
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Empty(t, sink.all())
}

func TestDispatchBackfillsVenueAndBookedTime(t *testing.T) {
	r, _ := routerFixture()

	rows, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 1,
		Type:        "BOOKING_CREATED",
		Title:       "Booking",
		VenueID:     u64(10),
		BookingID:   u64(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "Your booking for City Hall on 2026-03-14 18:30 has been confirmed.", rows[0].Message)
}

func TestDispatchDegradesWhenBackfillFails(t *testing.T) {
	r, _ := routerFixture()

	// Unknown venue and booking ids: the lookups fail quietly and the text
	// falls back to the generic placeholders.
	rows, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 1,
		Type:        "BOOKING_CREATED",
		Title:       "Booking",
		VenueID:     u64(77),
		BookingID:   u64(888),
	})
	require.NoError(t, err)
	assert.Equal(t, "Your booking for the venue has been confirmed.", rows[0].Message)
}

func TestDispatchUnknownSenderRendersGenericActor(t *testing.T) {
	r, _ := routerFixture()

	rows, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 1,
		SenderID:    u64(999),
		Type:        "BOOKING_CANCELLED",
		Title:       "Cancelled",
		VenueID:     u64(10),
	})
	require.NoError(t, err)

	var partnerMsg string
	for _, n := range rows {
		if n.RecipientID == 2 {
			partnerMsg = n.Message
		}
	}
	assert.Equal(t, "Someone cancelled a booking at City Hall.", partnerMsg)
}

func TestDispatchMessageOverridesPrimaryOnly(t *testing.T) {
	r, _ := routerFixture()

	rows, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 1,
		Type:        "ORDER_PLACED",
		Title:       "Order",
		Message:     "Special thanks from the kitchen!",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), rows[0].RecipientID)
	assert.Equal(t, "Special thanks from the kitchen!", rows[0].Message)
	for _, n := range rows[1:] {
		assert.NotEqual(t, "Special thanks from the kitchen!", n.Message)
	}
}

func TestDispatchFallbackMessageForUncoveredPair(t *testing.T) {
	r, _ := routerFixture()

	// SYSTEM has no per-role template anywhere.
	rows, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 1,
		Type:        "SYSTEM",
		Title:       "Maintenance",
	})
	require.NoError(t, err)
	assert.Equal(t, "You have a new notification.", rows[0].Message)
}

func TestDispatchSinkFailurePropagates(t *testing.T) {
	r, sink := routerFixture()
	sink.fail = errors.New("deadlock")

	_, err := r.Dispatch(context.Background(), model.NotificationEvent{
		RecipientID: 1,
		Type:        "SYSTEM",
		Title:       "x",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist fan-out")
}
