package handler

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/payment"
)

// PaymentHandler initiates eSewa payments by returning the signed field set
// the client posts to the gateway.
type PaymentHandler struct {
	ESewa *payment.ESewaClient
}

func NewPaymentHandler(e *payment.ESewaClient) *PaymentHandler { return &PaymentHandler{ESewa: e} }

var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

type initiateReq struct {
	TotalAmount string `json:"totalAmount"`
}

// Initiate signs a payment request for the given amount.
func (h *PaymentHandler) Initiate(c echo.Context) error {
	var req initiateReq
	if err := c.Bind(&req); err != nil || !amountPattern.MatchString(req.TotalAmount) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid totalAmount required"})
	}
	return c.JSON(http.StatusOK, h.ESewa.Initiate(req.TotalAmount))
}
