// Package middleware provides shared request processing: the soft request
// authenticator, route guards, the Redis response cache and the token-bucket
// rate limiter.
package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/auth"
)

// Context keys populated by Identify.
const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// Identify returns the per-request authenticator.  It runs on every route
// and never rejects: CORS preflight passes straight through, a missing or
// invalid bearer token just leaves the request unauthenticated, and route
// guards decide later whether identity is required.  On a valid token it
// attaches the caller's id, email and role to the context.
func Identify(codec *auth.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == "OPTIONS" {
				return next(c)
			}
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			if !codec.Validate(raw) {
				return next(c)
			}
			claims, err := codec.Decode(raw)
			if err != nil {
				return next(c)
			}
			if c.Get(ctxUserID) == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxEmail, claims.Subject)
				c.Set(ctxRole, string(claims.Role))
			}
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated caller's id, or 0 when the
// request is unauthenticated.
func CurrentUserID(c echo.Context) uint64 {
	if v, ok := c.Get(ctxUserID).(uint64); ok {
		return v
	}
	return 0
}

// CurrentRole returns the authenticated caller's role string, or "".
func CurrentRole(c echo.Context) string {
	if v, ok := c.Get(ctxRole).(string); ok {
		return v
	}
	return ""
}

// rateKeyUserID feeds the rate limiter key builder: authenticated requests
// bucket by user id, everything else by "anon".
func rateKeyUserID(c echo.Context) string {
	if id := CurrentUserID(c); id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
