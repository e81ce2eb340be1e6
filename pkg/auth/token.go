// Package auth issues and validates the login tokens the demo screens hand
// out. Tokens are HMAC-signed JWTs carried by the client inside the
// round-tripped state bag, so every request can be attributed to a user
// without a server-side session table.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer   = "usim/auth"
	audience = "usim.ui"
)

// DefaultTokenTTL bounds how long a login survives without re-authenticating.
const DefaultTokenTTL = 12 * time.Hour

var (
	// ErrInvalidToken covers expiry, bad signature and malformed input.
	ErrInvalidToken = errors.New("auth token is invalid")
)

// UserClaims carries the authenticated user through the UI layer. Screens
// read Name and Roles to decide what to render.
type UserClaims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// TokenManager signs and validates user tokens with a shared HMAC secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager around the application secret.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("auth secret must not be empty")
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for the given user.
func (tm *TokenManager) Issue(email, name string, roles []string) (string, error) {
	now := tm.now().UTC()
	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
		},
		Name:  name,
		Roles: roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token string and returns its claims. Anything short of a
// well-formed, correctly signed, unexpired token comes back as
// ErrInvalidToken.
func (tm *TokenManager) Validate(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return tm.secret, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
