package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rustamli/dashboard-api/internal/auth"
)

// RequireRole returns middleware that rejects requests whose authenticated
// identity does not hold the required role. It must be composed after
// Authenticate and fails closed: a request with no attached identity is
// denied rather than treated as some default role.
func RequireRole(role string) echo.MiddlewareFunc {
	message := "Insufficient permissions"
	if role == auth.RoleAdmin {
		message = "Admin access required"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Identity(c)
			if !ok || claims.Role != role {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": message,
				})
			}
			return next(c)
		}
	}
}
