// Package router registers the HTTP routes.  The soft authenticator and the
// rate limiter are installed globally in main; route groups here add only
// the guards (RequireAuth / RequireRole) their handlers need.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/handler"
)

// RegisterPublic wires the unauthenticated surface: the health check and the
// read-only browse allowlist for venues and programs.  The cache middleware,
// when enabled, is applied to these GETs in main.
func RegisterPublic(e *echo.Echo, v *handler.VenueHandler, p *handler.ProgramHandler, cache ...echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	g := e.Group("", cache...)
	g.GET("/venues", v.List)
	g.GET("/venues/:id", v.Get)
	g.GET("/venues/:id/programs", p.ListByVenue)
	g.GET("/programs/:id", p.Get)
}

// RegisterAuth wires the session lifecycle and the password-reset flow.
// None of these routes require an existing identity.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/request-password-reset", a.RequestPasswordReset)
	g.POST("/verify-otp", a.VerifyOTP)
	g.POST("/reset-password", a.ResetPassword)
}
