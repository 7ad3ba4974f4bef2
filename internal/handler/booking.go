package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/middleware"
	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/queue"
	"github.com/roshanmgr/venue-booking/internal/repository"
	"github.com/roshanmgr/venue-booking/internal/service"
)

// BookingHandler creates and lists bookings.  Creation is the canonical
// post-commit flow: the booking row is the primary write, and notification
// fan-out, confirmation mail and the queue publish all run afterwards as
// individually caught side effects that can never roll it back.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Venues   *repository.VenueRepo
	Users    *repository.UserRepo
	Router   *service.NotificationRouter
	Mail     service.Mailer
}

func NewBookingHandler(b *repository.BookingRepo, v *repository.VenueRepo, u *repository.UserRepo,
	r *service.NotificationRouter, m service.Mailer) *BookingHandler {
	return &BookingHandler{Bookings: b, Venues: v, Users: u, Router: r, Mail: m}
}

type bookingReq struct {
	VenueID     uint64    `json:"venueId"`
	BookedTime  time.Time `json:"bookedTime"`
	TotalAmount float64   `json:"totalAmount"`
}

// Create books a venue for the authenticated user.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil || req.VenueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venueId required"})
	}
	userID := middleware.CurrentUserID(c)
	ctx := c.Request().Context()

	venue, err := h.Venues.GetByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	booking := model.Booking{
		UserID:      userID,
		VenueID:     req.VenueID,
		BookedTime:  req.BookedTime.UTC(),
		Status:      model.BookingConfirmed,
		TotalAmount: req.TotalAmount,
	}
	id, err := h.Bookings.Create(ctx, booking)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	booking.ID = id

	h.runPostCommit(ctx, booking, venue)
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": booking.Status})
}

func (h *BookingHandler) runPostCommit(ctx context.Context, b model.Booking, venue model.Venue) {
	bookedAt := b.BookedTime.Format("2006-01-02 15:04")
	amount := b.TotalAmount
	service.RunSideEffects(ctx,
		service.SideEffect{Name: "booking-notify", Run: func(ctx context.Context) error {
			sender := b.UserID
			_, err := h.Router.Dispatch(ctx, model.NotificationEvent{
				RecipientID: b.UserID,
				SenderID:    &sender,
				Title:       "Booking Confirmed",
				Type:        string(model.TypeBookingCreated),
				BookingID:   &b.ID,
				VenueID:     &b.VenueID,
				VenueName:   venue.Name,
				BookedTime:  bookedAt,
				TotalAmount: &amount,
			})
			return err
		}},
		service.SideEffect{Name: "booking-mail", Run: func(ctx context.Context) error {
			u, err := h.Users.GetByID(ctx, b.UserID)
			if err != nil {
				return err
			}
			body := "Your booking for " + venue.Name + " on " + bookedAt + " is confirmed."
			return h.Mail.Send(u.Email, "Booking confirmed", body)
		}},
		service.SideEffect{Name: "booking-publish", Run: func(ctx context.Context) error {
			return queue.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
				BookingID:   b.ID,
				UserID:      b.UserID,
				VenueID:     b.VenueID,
				VenueName:   venue.Name,
				BookedTime:  bookedAt,
				TotalAmount: b.TotalAmount,
				ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
			})
		}},
	)
}

// ListMine returns the caller's bookings newest-first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	items, err := h.Bookings.ListByUser(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one booking; only the owner or an admin may see it.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.UserID != middleware.CurrentUserID(c) && middleware.CurrentRole(c) != string(model.RoleAdmin) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel transitions a booking to CANCELLED and notifies the fan-out set.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.UserID != middleware.CurrentUserID(c) && middleware.CurrentRole(c) != string(model.RoleAdmin) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Bookings.SetStatus(ctx, id, model.BookingCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	amount := b.TotalAmount
	sender := middleware.CurrentUserID(c)
	service.RunSideEffects(ctx,
		service.SideEffect{Name: "booking-cancel-notify", Run: func(ctx context.Context) error {
			_, err := h.Router.Dispatch(ctx, model.NotificationEvent{
				RecipientID: b.UserID,
				SenderID:    &sender,
				Title:       "Booking Cancelled",
				Type:        string(model.TypeBookingCancelled),
				BookingID:   &b.ID,
				VenueID:     &b.VenueID,
				TotalAmount: &amount,
			})
			return err
		}},
	)
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}
