package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidClaim = errors.New("invalid token claims")
)

// SessionClaims are the claims the LearnCrew API embeds in a bearer token.
// The agent holds no signing secret, so claims are inspected without
// signature verification and must never be used as an authorization source.
type SessionClaims struct {
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Inspect parses a bearer token without verifying its signature and
// returns the embedded claims.
func Inspect(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser()

	claims := &SessionClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}

// Expired reports whether the token carries an exp claim in the past.
// Tokens without an exp claim are treated as non-expiring.
func Expired(tokenString string, now time.Time) bool {
	claims, err := Inspect(tokenString)
	if err != nil {
		// An unparseable token is not proof of expiry; the server stays
		// the authority and will reject it with a 401 if it is bad.
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
