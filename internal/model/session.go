package model

import "time"

// Session mirrors the 'sessions' table: one row per live refresh session.
// The refresh secret handed to the client is never stored; only its SHA-256
// hash is kept in TokenHash.  Jti binds the row to the access token issued
// alongside it, and SessionID groups the refresh/access pairs produced by
// rotations within one logical login.
type Session struct {
	ID        uint64
	UserID    uint64
	SessionID string
	Jti       string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session has passed its expiry at the given
// instant.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
