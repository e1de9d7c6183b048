package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, carries an invalid
	// signature, or is otherwise unusable. Expiry is folded into the same
	// signal at the boundary: callers of IsValid cannot distinguish the
	// failure modes.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates a login attempt with a wrong email or
	// password. The two cases are deliberately indistinguishable so the API
	// does not leak which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
