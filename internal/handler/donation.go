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

// DonationHandler records donations and triggers the donation fan-out.
type DonationHandler struct {
	Donations *repository.DonationRepo
	Router    *service.NotificationRouter
}

func NewDonationHandler(d *repository.DonationRepo, r *service.NotificationRouter) *DonationHandler {
	return &DonationHandler{Donations: d, Router: r}
}

type donationReq struct {
	VenueID *uint64 `json:"venueId,omitempty"`
	Amount  float64 `json:"amount"`
	Remarks string  `json:"remarks"`
}

// Create records a donation by the authenticated user.
func (h *DonationHandler) Create(c echo.Context) error {
	var req donationReq
	if err := c.Bind(&req); err != nil || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "positive amount required"})
	}
	userID := middleware.CurrentUserID(c)
	ctx := c.Request().Context()

	id, err := h.Donations.Create(ctx, model.Donation{
		UserID:  userID,
		VenueID: req.VenueID,
		Amount:  req.Amount,
		Remarks: req.Remarks,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create donation failed"})
	}

	amount := req.Amount
	sender := userID
	service.RunSideEffects(ctx,
		service.SideEffect{Name: "donation-notify", Run: func(ctx context.Context) error {
			_, err := h.Router.Dispatch(ctx, model.NotificationEvent{
				RecipientID: userID,
				SenderID:    &sender,
				Title:       "Donation Received",
				Type:        string(model.TypeDonationReceived),
				VenueID:     req.VenueID,
				TotalAmount: &amount,
			})
			return err
		}},
	)
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListMine returns the caller's donations newest-first.
func (h *DonationHandler) ListMine(c echo.Context) error {
	items, err := h.Donations.ListByUser(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}
