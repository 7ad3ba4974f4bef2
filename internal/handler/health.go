// Package handler contains the HTTP handlers.  Handlers stay thin: bind the
// request, call a service or repository, map errors to status codes.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health lets load balancers and monitors verify the service is up.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
