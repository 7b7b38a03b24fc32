package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rustamli/dashboard-api/internal/auth"
	"github.com/rustamli/dashboard-api/internal/middleware"
	"github.com/rustamli/dashboard-api/internal/repository"
)

// CredentialStore is the slice of the user repository the auth endpoints
// need. The auth subsystem only ever reads credential records.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Codec *auth.Codec
	Users CredentialStore
}

func NewAuthHandler(codec *auth.Codec, users CredentialStore) *AuthHandler {
	return &AuthHandler{Codec: codec, Users: users}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	Token string `json:"token"`
}

type tokenResp struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login verifies an email/password pair and issues an access token. A
// missing user and a wrong password produce the same answer so the endpoint
// cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msgs := validateLogin(req.Email, req.Password); len(msgs) > 0 {
		return c.JSON(http.StatusBadRequest, errorDetail("Validation failed", strings.Join(msgs, ", ")))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, errorResponse("Invalid credentials"))
		}
		c.Logger().Errorf("login: query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, errorResponse("Invalid credentials"))
	}

	token, err := h.Codec.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		c.Logger().Errorf("login: issue token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}

	return c.JSON(http.StatusOK, successResponse(tokenResp{Token: token, Role: u.Role}, "Login successful"))
}

// Refresh verifies the presented token and re-signs the same identity with a
// fresh expiry. No server-side state is involved; an expired or tampered
// token cannot be refreshed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse("Token is required"))
	}

	claims, err := h.Codec.Verify(strings.TrimSpace(req.Token))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse("Invalid token"))
	}

	token, err := h.Codec.Issue(claims.ID, claims.Email, claims.Role)
	if err != nil {
		c.Logger().Errorf("refresh: issue token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse("Server error"))
	}

	return c.JSON(http.StatusOK, successResponse(tokenResp{Token: token, Role: claims.Role}, "Token refreshed"))
}

// Me returns the identity attached by the auth middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse("Access denied. No token provided."))
	}
	return c.JSON(http.StatusOK, successResponse(echo.Map{
		"id":    claims.ID,
		"email": claims.Email,
		"role":  claims.Role,
	}, "Success"))
}
