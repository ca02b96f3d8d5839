package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a client-side domain error with a structured code.
//
// Codes follow the format RD-<AREA>-<NNNN>, where the numeric part mirrors
// the closest HTTP status.
type DomainError struct {
	Code    string // Error code (e.g., "RD-RES-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Session errors.
var (
	// ErrNotSignedIn indicates a protected operation ran without a session.
	ErrNotSignedIn = NewDomainError("RD-SESS-4010", "not signed in")

	// ErrSessionExpired indicates the server rejected the stored credential.
	ErrSessionExpired = NewDomainError("RD-SESS-4011", "session expired, sign in again")

	// ErrSessionCorrupt indicates the stored session payload could not be read.
	ErrSessionCorrupt = NewDomainError("RD-SESS-4220", "stored session is unreadable")
)

// Resource errors.
var (
	// ErrValidation indicates a record failed client-side validation.
	ErrValidation = NewDomainError("RD-VAL-4000", "validation failed")

	// ErrRecordNotFound indicates the requested record does not exist.
	ErrRecordNotFound = NewDomainError("RD-RES-4040", "record not found")

	// ErrBadResponse indicates the server answered with an unexpected shape.
	ErrBadResponse = NewDomainError("RD-RES-5020", "unexpected response from server")

	// ErrMissingID indicates an operation needed a record id and got none.
	ErrMissingID = NewDomainError("RD-ARG-1002", "missing record id")
)

// FieldError is a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field errors found before submitting a record.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.WithDetails(strings.Join(parts, "; ")).Error()
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || IsDomainError(target, ErrValidation.Code)
}

// Field returns the message for a field, or "" if the field is valid.
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

// add records a field failure.
func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// orNil returns the error only when at least one field failed.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
