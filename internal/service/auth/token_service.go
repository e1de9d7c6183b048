package auth

import (
	"context"
	"time"

	"github.com/fintrack/fintrack-api/internal/domain"
)

// TokenService defines operations for issuing and validating session tokens.
// Tokens bind a user's email (subject), numeric id and role, and expire
// after the configured lifetime. There is no revocation mechanism: validity
// is purely time-and-signature based, and logout is a client-side concern.
type TokenService interface {
	// Generate creates a signed token carrying the user's email as subject
	// plus userId and role claims, issued now and expiring after the
	// configured lifetime.
	Generate(ctx context.Context, email string, userID int64, role domain.Role) (string, error)

	// Validate parses and verifies the token and returns its claims.
	// Returns ErrExpiredToken when only the expiry failed, ErrInvalidToken
	// for every other failure (malformed structure, wrong signature, wrong
	// signing method).
	Validate(ctx context.Context, tokenString string) (*Claims, error)

	// IsValid reports whether the token is structurally valid, correctly
	// signed and unexpired. It fails closed: any error yields false, and no
	// distinction between failure modes surfaces to the caller.
	IsValid(ctx context.Context, tokenString string) bool

	// RemainingTime returns how long until the claims' expiry, measured
	// against the service clock. May be negative for an expired token.
	RemainingTime(claims *Claims) time.Duration

	// Lifetime returns the configured token lifetime.
	Lifetime() time.Duration
}

// Claims represents the verified contents of a session token.
type Claims struct {
	// Email is the subject the token was issued for.
	Email string `json:"sub,omitempty"`

	// UserID is the numeric identifier of the user.
	UserID int64 `json:"userId,omitempty"`

	// Role is the user's access level at issue time.
	Role domain.Role `json:"perfil,omitempty"`

	// Standard registered JWT claims
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
