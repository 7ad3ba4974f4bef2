package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
)

// ProgramHandler is pass-through plumbing over the program repository.
type ProgramHandler struct {
	Programs *repository.ProgramRepo
}

func NewProgramHandler(p *repository.ProgramRepo) *ProgramHandler { return &ProgramHandler{Programs: p} }

type programReq struct {
	VenueID     uint64    `json:"venueId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	TicketPrice float64   `json:"ticketPrice"`
}

// Create inserts a program.
func (h *ProgramHandler) Create(c echo.Context) error {
	var req programReq
	if err := c.Bind(&req); err != nil || req.Title == "" || req.VenueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venueId/title required"})
	}
	id, err := h.Programs.Create(c.Request().Context(), model.Program{
		VenueID: req.VenueID, Title: req.Title, Description: req.Description,
		StartsAt: req.StartsAt, EndsAt: req.EndsAt, TicketPrice: req.TicketPrice,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create program failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListByVenue is public and cacheable.
func (h *ProgramHandler) ListByVenue(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Programs.ListByVenue(c.Request().Context(), venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one program.
func (h *ProgramHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Programs.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "program not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a program.
func (h *ProgramHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Programs.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "program not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
