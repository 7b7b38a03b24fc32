// Package auth provides the stateless token codec and password hashing used
// by the dashboard API. Tokens are HS256 JWTs carrying the user's id, email
// and role; validity is a pure function of the signature and the embedded
// expiry, so the server keeps no session state.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles stored in the users table and embedded in token claims.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Verification failures. Handlers map all three to HTTP 401 but keep the
// distinct reason in the response body for observability.
var (
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("invalid token signature")
	ErrExpired      = errors.New("token has expired")
)

// Claims is the payload embedded in every access token. A token is never
// mutated after issuance; refresh produces a new value.
type Claims struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens. The clock is injected so expiry
// behaviour is testable without sleeping.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a Codec with the given signing secret and token lifetime.
// The TTL must be positive: a token must expire strictly after issuance.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the codec that reads time from now. Used by
// tests to pin issuance and verification instants.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue signs a token for the given user. Pure function of the claims, the
// secret and the clock; no side effects.
func (c *Codec) Issue(id uint64, email, role string) (string, error) {
	iat := c.now().UTC()
	claims := Claims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(c.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token, returning its claims. Failures are
// reported as ErrMalformed, ErrBadSignature or ErrExpired. Only Verify may
// back a trust decision; DecodeUnsafe exists for display purposes only.
func (c *Codec) Verify(token string) (*Claims, error) {
	claims := new(Claims)
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject anything that is not HMAC, including alg "none".
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSignature
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrBadSignature),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !tok.Valid {
		return nil, ErrBadSignature
	}
	return claims, nil
}

// DecodeUnsafe parses the token payload without checking the signature or
// expiry. Clients lacking the secret use it to show things like time
// remaining; the server never acts on its result.
func DecodeUnsafe(token string) (*Claims, bool) {
	claims := new(Claims)
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
