// Package auth issues and validates access tokens and hashes passwords.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Token validation failures. Each maps to a 401 at the HTTP layer.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")
	ErrWrongTokenType   = errors.New("wrong token type")
)

// AccessTokenType is the "type" claim carried by every issued token.
const AccessTokenType = "access"

// JWTService issues and validates the bearer tokens that identify a user.
type JWTService interface {
	// GenerateToken signs an access token for userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken parses tokenString and returns its claims, or one of the
	// token errors above.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded payload of an access token.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	TokenType string    `json:"type,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
