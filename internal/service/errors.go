// Package service provides application-level services for managing users,
// accounts, cards and transactions. Services enforce the business
// invariants (uniqueness, ownership, dependent-record guards) and
// orchestrate store calls; the API layer maps their errors to HTTP status
// codes.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is().
var (
	// ErrHasDependents indicates a delete/deactivate was blocked because
	// dependent records exist: an account with transactions, or a user who
	// still owns accounts, cards or transactions. This guard lives in the
	// service layer and is independent of any storage cascade rules.
	ErrHasDependents = errors.New("entity has dependent records")

	// ErrWrongPassword indicates a password change was rejected because the
	// supplied current password did not match the stored hash.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrPasswordPolicy indicates a supplied password fails the minimum
	// requirements.
	ErrPasswordPolicy = errors.New("password does not meet minimum requirements")
)

// ServiceError is a custom error type carrying the operation context of a
// failed service call.
type ServiceError struct {
	Service   string // The service (e.g., "account_service")
	Operation string // The operation that failed (e.g., "create")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
