package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAuthRequired is returned before any request is sent when no session is present.
	ErrAuthRequired = errors.New("authentication required")
	// ErrCheckoutInProgress rejects a checkout while another one is still in flight.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrNotCancellable is returned for orders whose status is not pending.
	ErrNotCancellable = errors.New("order cannot be cancelled")
	// ErrInvalidPayload indicates the remote service answered with an unexpected body shape.
	ErrInvalidPayload = errors.New("invalid data format")
	// ErrCorruptSession marks a persisted session record that cannot be decoded.
	ErrCorruptSession = errors.New("session record unreadable")
)

// APIError is a non-success response carrying the server-supplied message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commerce api: status %d: %s", e.StatusCode, e.Message)
}

// NetworkError means the request could not complete at the transport level.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a client-side rejection raised before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
