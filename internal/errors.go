package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a request-level failure with all data needed for
// rendering the error page. It implements the error interface.
type Error struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StatusCode() int {
	return e.Code
}

// NewError creates an Error with the given status code and message.
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewCSRFError creates the 403 error raised when a mutating request carries
// a missing or mismatched CSRF token.
func NewCSRFError() *Error {
	return NewError(http.StatusForbidden, "Invalid or missing CSRF token. Reload and try again")
}

// NewActionNotSupportedError creates the 500 error raised when a request
// requires an action callback the host application did not supply.
func NewActionNotSupportedError(action string) *Error {
	return NewError(http.StatusInternalServerError, fmt.Sprintf("Action %q is not supported", action))
}

// NewNotFoundError creates a 404 error with a preformatted message.
func NewNotFoundError(message string) *Error {
	return NewError(http.StatusNotFound, message)
}

// AsError extracts the *Error from an error chain if present.
// Returns nil when there is none.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// ValidationFault is a single field-level validation failure.
type ValidationFault struct {
	// Value is the coerced value that was validated.
	Value any

	// Field is the field the fault belongs to.
	Field *Field

	// Message is the short error message, excluding the field name.
	Message string
}

// FullMessage prefixes the message with the capitalized field label.
func (f ValidationFault) FullMessage() string {
	return Capitalize(f.Field.DisplayLabel()) + " " + f.Message
}

// ValidationError aggregates all faults produced by one coercion pass,
// together with the in-progress payload so the caller can re-render the
// form pre-filled with the attempted values. It is constructed at the
// point of failure and never mutated afterward.
type ValidationError struct {
	// ByFieldName groups Faults by field name. Always derived from Faults.
	ByFieldName map[string][]ValidationFault

	// Payload holds the coerced values of all editable fields, including
	// the ones that validated cleanly.
	Payload Record

	// Faults in schema-declaration order.
	Faults []ValidationFault
}

func (e *ValidationError) Error() string {
	switch len(e.Faults) {
	case 0:
		return "Validation error"
	case 1:
		return "Validation error: " + e.Faults[0].FullMessage()
	default:
		return fmt.Sprintf("%d validation errors", len(e.Faults))
	}
}

func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// NewValidationError builds the aggregate from faults and the in-progress
// payload, deriving the by-name grouping.
func NewValidationError(faults []ValidationFault, payload Record) *ValidationError {
	byName := make(map[string][]ValidationFault, len(faults))
	for _, f := range faults {
		byName[f.Field.Name] = append(byName[f.Field.Name], f)
	}
	return &ValidationError{
		Faults:      faults,
		ByFieldName: byName,
		Payload:     payload,
	}
}

// AsValidationError extracts the *ValidationError from an error chain if
// present.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
