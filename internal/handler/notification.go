package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/queue"
	"github.com/roshanmgr/venue-booking/internal/repository"
	"github.com/roshanmgr/venue-booking/internal/service"
)

// NotificationHandler exposes the fan-out trigger and the per-user
// notification management endpoints.
type NotificationHandler struct {
	Router  *service.NotificationRouter
	Service *service.NotificationService
}

func NewNotificationHandler(r *service.NotificationRouter, s *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{Router: r, Service: s}
}

// Create accepts a NotificationEvent and runs the fan-out.  A missing
// primary recipient aborts the whole operation with nothing written; an
// unrecognized type surfaces as a 500-class failure.
func (h *NotificationHandler) Create(c echo.Context) error {
	var ev model.NotificationEvent
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	rows, err := h.Router.Dispatch(ctx, ev)
	if err != nil {
		if service.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "notification dispatch failed"})
	}

	service.RunSideEffects(ctx,
		service.SideEffect{Name: "notify-publish", Run: func(ctx context.Context) error {
			ids := make([]uint64, len(rows))
			for i, n := range rows {
				ids[i] = n.RecipientID
			}
			var amount float64
			if ev.TotalAmount != nil {
				amount = *ev.TotalAmount
			}
			return queue.PublishNotificationDispatched(ctx, queue.NotificationDispatchedEvent{
				Type:         ev.Type,
				Title:        ev.Title,
				RecipientIDs: ids,
				SenderID:     ev.SenderID,
				BookingID:    ev.BookingID,
				VenueID:      ev.VenueID,
				VenueName:    ev.VenueName,
				TotalAmount:  amount,
				DispatchedAt: time.Now().UTC().Format(time.RFC3339),
			})
		}},
	)
	return c.JSON(http.StatusCreated, echo.Map{"created": len(rows)})
}

// ListForUser returns a user's notifications newest-first.
func (h *NotificationHandler) ListForUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	items, err := h.Service.ListFor(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// UnreadCount returns {count}.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	n, err := h.Service.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// ListByStatus filters a user's notifications by status.
func (h *NotificationHandler) ListByStatus(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	status, err := model.ParseNotificationStatus(c.Param("status"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	items, err := h.Service.ListForByStatus(c.Request().Context(), userID, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// MarkRead transitions one notification to READ on behalf of ?userId=.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	userID, err := queryID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId required"})
	}
	if err := h.Service.MarkRead(c.Request().Context(), id, userID); err != nil {
		return notifError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "marked read"})
}

// MarkAllRead bulk-transitions a user's unread notifications.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.Service.MarkAllRead(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "all marked read"})
}

// Delete removes one notification on behalf of ?userId=.
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	userID, err := queryID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId required"})
	}
	if err := h.Service.Delete(c.Request().Context(), id, userID); err != nil {
		return notifError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ClearAll removes every notification a user owns.
func (h *NotificationHandler) ClearAll(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.Service.ClearAll(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cleared"})
}

func notifError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

func queryID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.QueryParam(name), 10, 64)
}
