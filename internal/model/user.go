// Package model defines the entity types shared by repositories, services
// and handlers.  All timestamps are stored and compared in UTC.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Role classifies a principal.  It is a closed enumeration: every place that
// branches on role (message templates, route guards) must handle all three
// values and fall back explicitly for anything else.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RolePartner  Role = "PARTNER"
	RoleAttendee Role = "ATTENDEE"
)

// ParseRole normalizes and validates a role string coming from a request or
// a database row.  Unknown values are rejected rather than defaulted so that
// a new role cannot slip through guards unhandled.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RolePartner:
		return RolePartner, nil
	case RoleAttendee:
		return RoleAttendee, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Account status values.  Partner accounts start out pending and are
// activated by an admin; everyone else is active immediately.
const (
	StatusPending = "pending"
	StatusActive  = "Active"
)

// Principal mirrors the 'users' table.  Role is a tag on a single record,
// not a subtype: partner-specific fields live in the optional
// PartnerProfile, selected via the role tag.
type Principal struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         Role
	FullName     string
	Status       string
	OTPCode      *string
	OTPExpiry    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PartnerProfile carries the partner-only extension of a principal.  It is
// present only when Role == RolePartner.
type PartnerProfile struct {
	UserID           uint64
	OrganizationName string
	ContactNumber    string
}

// ActorName returns the display name used when attributing an action to a
// principal inside a rendered notification.
func (p *Principal) ActorName() string {
	if p == nil || p.FullName == "" {
		return "Someone"
	}
	return p.FullName
}
