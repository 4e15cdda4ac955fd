package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a business rule violation with a stable code
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Common domain errors shared across bounded contexts
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "invalid input")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "invalid state for this operation")
	ErrUnavailable   = NewDomainError("UNAVAILABLE", "dependent service unavailable")
)

// IsNotFound reports whether err is (or wraps) a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
