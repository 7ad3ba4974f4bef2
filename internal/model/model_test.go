package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{
		"ADMIN":     RoleAdmin,
		"admin":     RoleAdmin,
		" partner ": RolePartner,
		"Attendee":  RoleAttendee,
	} {
		got, err := ParseRole(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "root", "SUPERADMIN"} {
		_, err := ParseRole(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseNotificationType(t *testing.T) {
	got, err := ParseNotificationType("booking_created")
	require.NoError(t, err)
	assert.Equal(t, TypeBookingCreated, got)

	_, err = ParseNotificationType("BOOKING_EXPLODED")
	assert.Error(t, err)
}

func TestParseNotificationStatus(t *testing.T) {
	got, err := ParseNotificationStatus(" read ")
	require.NoError(t, err)
	assert.Equal(t, StatusRead, got)

	_, err = ParseNotificationStatus("seen")
	assert.Error(t, err)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Hour)))
}

func TestActorNameFallsBackToSomeone(t *testing.T) {
	var nobody *Principal
	assert.Equal(t, "Someone", nobody.ActorName())
	assert.Equal(t, "Someone", (&Principal{}).ActorName())
	assert.Equal(t, "Asha", (&Principal{FullName: "Asha"}).ActorName())
}
