package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidRole is returned when a user role is not a known value.
	ErrInvalidRole = errors.New("invalid user role")

	// ErrInvalidAccountType is returned when an account type is not a known value.
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrInvalidTransactionType is returned when a transaction type is not a known value.
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)
