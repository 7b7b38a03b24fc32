package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is used by load balancers and monitoring to verify the service is
// up. It requires no authentication.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: "Server is running"})
}
