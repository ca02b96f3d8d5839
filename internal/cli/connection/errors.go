package connection

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// Status class sentinels. An *APIError matches these with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status    int    // HTTP status code
	Code      string // Server error code, if any
	Message   string // Server message, or a generic fallback
	Method    string
	Path      string
	RequestID string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

// Is matches the status class sentinels and the related domain errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrServer:
		return e.Status >= http.StatusInternalServerError
	}
	switch {
	case domain.IsDomainError(target, domain.ErrRecordNotFound.Code):
		return e.Status == http.StatusNotFound
	case domain.IsDomainError(target, domain.ErrSessionExpired.Code):
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// TransportError is a failure to reach the API at all.
type TransportError struct {
	Method string
	Path   string
	Cause  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Cause)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// DecodeError reports a 2xx response whose body does not match the
// expected shape.
type DecodeError struct {
	Target string // Go type the body was decoded into
	Status int
	Cause  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (status %d): %v", e.Target, e.Status, e.Cause)
}

// Unwrap returns the underlying JSON error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is matches domain.ErrBadResponse.
func (e *DecodeError) Is(target error) bool {
	return domain.IsDomainError(target, domain.ErrBadResponse.Code)
}
