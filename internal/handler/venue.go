package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
)

// VenueHandler is pass-through plumbing over the venue repository.
type VenueHandler struct {
	Venues *repository.VenueRepo
}

func NewVenueHandler(v *repository.VenueRepo) *VenueHandler { return &VenueHandler{Venues: v} }

type venueReq struct {
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Capacity    uint32  `json:"capacity"`
	PricePerDay float64 `json:"pricePerDay"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// Create inserts a venue (admin/partner only, enforced by the router).
func (h *VenueHandler) Create(c echo.Context) error {
	var req venueReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	id, err := h.Venues.Create(c.Request().Context(), model.Venue{
		Name: req.Name, Location: req.Location, Capacity: req.Capacity,
		PricePerDay: req.PricePerDay, ImageURL: req.ImageURL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List is public and cacheable.
func (h *VenueHandler) List(c echo.Context) error {
	items, err := h.Venues.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one venue.
func (h *VenueHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// Update overwrites a venue's mutable fields.
func (h *VenueHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err = h.Venues.Update(c.Request().Context(), model.Venue{
		ID: id, Name: req.Name, Location: req.Location, Capacity: req.Capacity,
		PricePerDay: req.PricePerDay, ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// Delete removes a venue.
func (h *VenueHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Venues.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// LinkPartner associates a partner with a venue so venue events reach their
// notification feed (admin only).
func (h *VenueHandler) LinkPartner(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		PartnerID uint64 `json:"partnerId"`
	}
	if err := c.Bind(&req); err != nil || req.PartnerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "partnerId required"})
	}
	if err := h.Venues.LinkPartner(c.Request().Context(), venueID, req.PartnerID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "link failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "linked"})
}
