package core

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	// ErrInvalidCredentials is a normal negative login outcome, not a
	// fault; it is never logged above debug level.
	ErrInvalidCredentials = errors.New("invalid identifier or password") // 401 Unauthorized
	ErrNotAuthenticated   = errors.New("not authenticated")              // 401
	ErrInvalidToken       = errors.New("invalid session token")          // 401
	ErrTokenNotFound      = errors.New("no active session")
)

// Lookup errors
var (
	ErrUserNotFound      = errors.New("user not found")      // 404 Not Found
	ErrPartnerNotFound   = errors.New("partner not found")   // 404
	ErrPrincipalNotFound = errors.New("principal not found") // 404
)

// Registration errors
var (
	ErrUserExists    = errors.New("user already exists")    // 409 Conflict
	ErrPartnerExists = errors.New("partner already exists") // 409
)

// Config errors (wiring-time)
var (
	ErrStorageRequired = errors.New("storage adapter is required") // 500
	ErrUnknownKind     = errors.New("unknown principal kind")      // 500
)

var (
	ErrCacheNotFound = errors.New("principal not found in cache")
)

// ValidationError reports a rejected quote or policy input. It is recovered
// locally and surfaced as a user-facing message, never fatal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
