package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing card or user.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidFilterKind signals a filter kind outside the closed enumeration.
	ErrInvalidFilterKind = errors.New("invalid filter kind")
	// ErrInvalidFilterVariable signals a variable outside the allow-list for its path.
	ErrInvalidFilterVariable = errors.New("invalid filter variable")
	// ErrInvalidFilterValue signals a value of the wrong type for the filter path.
	ErrInvalidFilterValue = errors.New("invalid filter value")
	// ErrInvalidInput signals a missing or malformed request argument
	// outside the filter vocabulary.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCard signals a card that fails aggregate validation.
	ErrInvalidCard = errors.New("invalid card")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrUnauthorized signals a missing or invalid token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals an authenticated caller without the required role.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError wraps a validation sentinel with a descriptive message.
type ValidationError struct {
	Sentinel error
	Detail   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Sentinel.Error(), e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Sentinel }

// NewValidationError creates a ValidationError around a validation sentinel.
func NewValidationError(sentinel error, format string, args ...any) error {
	return &ValidationError{Sentinel: sentinel, Detail: fmt.Sprintf(format, args...)}
}
