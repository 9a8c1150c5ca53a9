// Package errors provides error handling utilities.
package errors

import (
	"fmt"
	"strings"
)

// Type identifies the category of error
type Type string

const (
	// TypeValidation indicates out-of-bound or malformed merged parameters
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeCalculation indicates an arithmetic failure during range computation
	TypeCalculation Type = "CALCULATION_ERROR"

	// TypeSource indicates the defaults source was unavailable or malformed
	TypeSource Type = "SOURCE_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNetwork indicates a network error
	TypeNetwork Type = "NETWORK_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// FieldViolation describes a single violated parameter field
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`

	// Violations lists every violated field for validation errors.
	// Validation collects all violations, not just the first.
	Violations []FieldViolation `json:"violations,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		fields := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			fields[i] = v.Field
		}
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Message, strings.Join(fields, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// AsError extracts a domain error from err when possible
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}

// Validation creates a validation error carrying every violated field
func Validation(violations []FieldViolation) *Error {
	return &Error{
		Type:       TypeValidation,
		Message:    "parameter validation failed",
		Violations: violations,
	}
}

// Calculation creates a calculation error identifying the offending range
// and field
func Calculation(rangeID, field, reason string) *Error {
	e := Newf(TypeCalculation, "range %s: %s: %s", rangeID, field, reason)
	return e.WithContext("range", rangeID).WithContext("field", field)
}

// SourceUnavailable creates an error for an unreachable defaults source
func SourceUnavailable(message string, cause error) *Error {
	return Wrap(TypeSource, message, cause)
}

// MalformedSource creates an error for an unparsable defaults source
func MalformedSource(message string, cause error) *Error {
	e := Wrap(TypeSource, message, cause)
	return e.WithContext("malformed", true)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
