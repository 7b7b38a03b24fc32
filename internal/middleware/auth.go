// Package middleware provides reusable HTTP middleware: bearer-token
// authentication, role gating, Redis response caching and rate limiting.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rustamli/dashboard-api/internal/auth"
)

// identityKey is the context key under which Authenticate stores the
// verified claims of the current request.
const identityKey = "identity"

// Identity returns the claims attached by Authenticate, or false when the
// request never passed through it.
func Identity(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(identityKey).(*auth.Claims)
	return claims, ok
}

// Authenticate returns middleware that validates the Authorization bearer
// token and attaches the resolved identity to the request context. Missing,
// malformed, badly signed and expired tokens all map to 401; the message
// keeps the distinct reason for observability. Stored state is never
// touched: verification is a pure function of the token and the secret.
func Authenticate(codec *auth.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Access denied. No token provided.",
				})
			}

			claims, err := codec.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": reasonFor(err),
				})
			}

			c.Set(identityKey, claims)
			// Convenience keys for logging and rate-limit key building.
			c.Set("user_id", claims.ID)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return "Token has expired"
	case errors.Is(err, auth.ErrBadSignature):
		return "Invalid token signature"
	default:
		return "Invalid token format"
	}
}
