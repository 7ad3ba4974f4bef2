package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/middleware"
	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
	"github.com/roshanmgr/venue-booking/internal/service"
)

// OrderHandler creates and lists orders.  Like bookings, order creation
// fires best-effort post-commit side effects.
type OrderHandler struct {
	Orders *repository.OrderRepo
	Router *service.NotificationRouter
}

func NewOrderHandler(o *repository.OrderRepo, r *service.NotificationRouter) *OrderHandler {
	return &OrderHandler{Orders: o, Router: r}
}

type orderReq struct {
	VenueID     *uint64 `json:"venueId,omitempty"`
	Items       string  `json:"items"`
	TotalAmount float64 `json:"totalAmount"`
}

// Create places an order for the authenticated user.
func (h *OrderHandler) Create(c echo.Context) error {
	var req orderReq
	if err := c.Bind(&req); err != nil || req.Items == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
	}
	userID := middleware.CurrentUserID(c)
	ctx := c.Request().Context()

	id, err := h.Orders.Create(ctx, model.Order{
		UserID:      userID,
		VenueID:     req.VenueID,
		Items:       req.Items,
		TotalAmount: req.TotalAmount,
		Status:      "PLACED",
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}

	amount := req.TotalAmount
	sender := userID
	service.RunSideEffects(ctx,
		service.SideEffect{Name: "order-notify", Run: func(ctx context.Context) error {
			_, err := h.Router.Dispatch(ctx, model.NotificationEvent{
				RecipientID: userID,
				SenderID:    &sender,
				Title:       "Order Placed",
				Type:        string(model.TypeOrderPlaced),
				VenueID:     req.VenueID,
				TotalAmount: &amount,
			})
			return err
		}},
	)
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListMine returns the caller's orders newest-first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	items, err := h.Orders.ListByUser(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}
