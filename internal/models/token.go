package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload of the session token issued by the concursos
// backend. The portal decodes it without signature verification: the backend
// issues and rotates tokens, the portal only inspects expiry and roles.
type TokenClaims struct {
	jwt.RegisteredClaims
	CPF   string   `json:"cpf"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// ParseToken decodes the claims of a session token without verifying its
// signature. Any malformed input yields an error, never a panic.
func ParseToken(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// Valid reports whether the token carries an expiry in the future. Tokens
// without an expiry are treated as invalid.
func (c *TokenClaims) Valid(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.After(now)
}

// HasRole reports whether the token carries the given role
func (c *TokenClaims) HasRole(role string) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
