package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/handler"
	"github.com/roshanmgr/venue-booking/internal/middleware"
	"github.com/roshanmgr/venue-booking/internal/model"
)

// RegisterNotifications wires the fan-out trigger and the per-user
// notification management endpoints.  Everything requires an authenticated
// caller; ownership of individual rows is enforced in the service.
func RegisterNotifications(e *echo.Echo, n *handler.NotificationHandler) {
	g := e.Group("/notifications", middleware.RequireAuth())
	g.POST("/create", n.Create)
	g.GET("/user/:userId", n.ListForUser)
	g.GET("/user/:userId/unread-count", n.UnreadCount)
	g.GET("/user/:userId/status/:status", n.ListByStatus)
	g.PUT("/:id/read", n.MarkRead)
	g.PUT("/user/:userId/mark-all-read", n.MarkAllRead)
	g.DELETE("/:id", n.Delete)
	g.DELETE("/user/:userId/clear-all", n.ClearAll)
}

// RegisterBookings wires booking creation (attendees), listing and
// cancellation.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler) {
	g := e.Group("/bookings", middleware.RequireAuth())
	g.POST("", b.Create)
	g.GET("/my", b.ListMine)
	g.GET("/:id", b.Get)
	g.PUT("/:id/cancel", b.Cancel)
}

// RegisterOrders wires order placement and listing.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler) {
	g := e.Group("/orders", middleware.RequireAuth())
	g.POST("", o.Create)
	g.GET("/my", o.ListMine)
}

// RegisterDonations wires donation recording and listing.
func RegisterDonations(e *echo.Echo, d *handler.DonationHandler) {
	g := e.Group("/donations", middleware.RequireAuth())
	g.POST("", d.Create)
	g.GET("/my", d.ListMine)
}

// RegisterPayments wires eSewa payment initiation.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler) {
	g := e.Group("/payments", middleware.RequireAuth())
	g.POST("/esewa/initiate", p.Initiate)
}

// RegisterVenueAdmin wires the mutating venue/program endpoints, restricted
// to admins and partners.  Partner linking is admin-only.
func RegisterVenueAdmin(e *echo.Echo, v *handler.VenueHandler, p *handler.ProgramHandler) {
	g := e.Group("", middleware.RequireRole(string(model.RoleAdmin), string(model.RolePartner)))
	g.POST("/venues", v.Create)
	g.PUT("/venues/:id", v.Update)
	g.DELETE("/venues/:id", v.Delete)
	g.POST("/programs", p.Create)
	g.DELETE("/programs/:id", p.Delete)

	admin := e.Group("", middleware.RequireRole(string(model.RoleAdmin)))
	admin.POST("/venues/:id/partners", v.LinkPartner)
}
