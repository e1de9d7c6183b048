package mocks

import (
	"context"
	"time"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing.
type MockTokenService struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, email string, userID int64, role domain.Role) (string, error)

	// ValidateFn allows test cases to mock the Validate behavior
	ValidateFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token         string
	Err           error
	ValidateErr   error
	Claims        *auth.Claims
	TokenLifetime time.Duration
}

var _ auth.TokenService = (*MockTokenService)(nil)

// Generate implements the auth.TokenService interface.
func (m *MockTokenService) Generate(
	ctx context.Context,
	email string,
	userID int64,
	role domain.Role,
) (string, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, email, userID, role)
	}
	return m.Token, m.Err
}

// Validate implements the auth.TokenService interface.
func (m *MockTokenService) Validate(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// IsValid implements the auth.TokenService interface.
func (m *MockTokenService) IsValid(ctx context.Context, tokenString string) bool {
	_, err := m.Validate(ctx, tokenString)
	return err == nil
}

// RemainingTime implements the auth.TokenService interface.
func (m *MockTokenService) RemainingTime(claims *auth.Claims) time.Duration {
	if claims == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt)
}

// Lifetime implements the auth.TokenService interface.
func (m *MockTokenService) Lifetime() time.Duration {
	if m.TokenLifetime == 0 {
		return time.Hour
	}
	return m.TokenLifetime
}
