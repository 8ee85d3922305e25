package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is an opaque bearer token scoping one connection attempt. It is
// carried once, in the connection URL, and never inside a frame.
type Credential string

// ErrEmptyCredential indicates a missing token.
var ErrEmptyCredential = errors.New("empty credential")

// Claims is the subset of token claims the client cares about.
type Claims struct {
	// Subject is the user ID the token was issued to.
	Subject string
	// ExpiresAt is the token expiry, zero if the token carries none.
	ExpiresAt time.Time
}

// Empty reports whether the credential is blank.
func (c Credential) Empty() bool { return c == "" }

// ParseClaims extracts claims without verifying the signature. Verification
// is the backend's job at connection time; the client only introspects.
// Opaque non-JWT tokens return an error and should be passed through as-is.
func ParseClaims(c Credential) (*Claims, error) {
	if c.Empty() {
		return nil, ErrEmptyCredential
	}
	token, _, err := jwt.NewParser().ParseUnverified(string(c), jwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	if sub, err := token.Claims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// Expired reports whether the credential is a JWT whose expiry has passed.
// Opaque tokens and tokens without an expiry claim report false: the server
// is authoritative and will refuse the connection itself.
func Expired(c Credential) bool {
	claims, err := ParseClaims(c)
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(claims.ExpiresAt)
}
