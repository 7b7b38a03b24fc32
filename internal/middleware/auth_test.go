package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/rustamli/dashboard-api/internal/auth"
)

func newCodec(t *testing.T) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec("test-secret", time.Hour)
	require.NoError(t, err)
	return c
}

// echoHandler records the identity the middleware attached.
func echoHandler(got **auth.Claims) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, ok := Identity(c); ok {
			*got = claims
		}
		return c.NoContent(http.StatusOK)
	}
}

func doRequest(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateMissingToken(t *testing.T) {
	e := echo.New()
	var got *auth.Claims
	e.GET("/protected", echoHandler(&got), Authenticate(newCodec(t)))

	rec := doRequest(e, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Access denied. No token provided.")
	require.Nil(t, got)

	// Non-bearer schemes count as missing too.
	rec = doRequest(e, "Basic abc123")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, got)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	e := echo.New()
	var got *auth.Claims
	e.GET("/protected", echoHandler(&got), Authenticate(newCodec(t)))

	rec := doRequest(e, "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid token format")
	require.Nil(t, got)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	codec := newCodec(t)
	past := time.Now().Add(-2 * time.Hour)
	token, err := codec.WithClock(func() time.Time { return past }).Issue(1, "user@gmail.com", auth.RoleUser)
	require.NoError(t, err)

	e := echo.New()
	var got *auth.Claims
	e.GET("/protected", echoHandler(&got), Authenticate(codec))

	rec := doRequest(e, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Token has expired")
	require.Nil(t, got)
}

func TestAuthenticateBadSignature(t *testing.T) {
	other, err := auth.NewCodec("other-secret", time.Hour)
	require.NoError(t, err)
	token, err := other.Issue(1, "user@gmail.com", auth.RoleUser)
	require.NoError(t, err)

	e := echo.New()
	var got *auth.Claims
	e.GET("/protected", echoHandler(&got), Authenticate(newCodec(t)))

	rec := doRequest(e, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid token signature")
	require.Nil(t, got)
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	codec := newCodec(t)
	token, err := codec.Issue(42, "admin@gmail.com", auth.RoleAdmin)
	require.NoError(t, err)

	e := echo.New()
	var got *auth.Claims
	e.GET("/protected", echoHandler(&got), Authenticate(codec))

	rec := doRequest(e, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, uint64(42), got.ID)
	require.Equal(t, "admin@gmail.com", got.Email)
	require.Equal(t, auth.RoleAdmin, got.Role)
}

func TestRequireRoleAllowsMatching(t *testing.T) {
	codec := newCodec(t)
	token, err := codec.Issue(1, "admin@gmail.com", auth.RoleAdmin)
	require.NoError(t, err)

	e := echo.New()
	var got *auth.Claims
	e.GET("/protected", echoHandler(&got), Authenticate(codec), RequireRole(auth.RoleAdmin))

	rec := doRequest(e, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsInsufficientRole(t *testing.T) {
	codec := newCodec(t)
	token, err := codec.Issue(2, "user@gmail.com", auth.RoleUser)
	require.NoError(t, err)

	e := echo.New()
	var got *auth.Claims
	e.GET("/protected", echoHandler(&got), Authenticate(codec), RequireRole(auth.RoleAdmin))

	rec := doRequest(e, "Bearer "+token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Admin access required")
}

func TestRequireRoleFailsClosedWithoutAuthenticate(t *testing.T) {
	// Even when the auth middleware was (mis)composed away, the role guard
	// must deny rather than assume a default role.
	e := echo.New()
	var got *auth.Claims
	e.GET("/protected", echoHandler(&got), RequireRole(auth.RoleAdmin))

	rec := doRequest(e, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
