// Package errors provides structured error types for seal generation.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes mirror the generation failure taxonomy:
//   - INVALID_*: Input validation failures (caller can fix and retry)
//   - TEMPLATE_INTEGRITY: Base template checksum drift (fatal, operator alert)
//   - ENCODING_CAPACITY: Payload exceeds QR capacity (caller may lower level)
//   - EMPTY_PATTERN: Renderer produced zero shapes (fatal, never downgraded)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidToken, "token too long: %d bytes", n)
//	if errors.Is(err, errors.ErrCodeInvalidToken) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEncodingCapacity, origErr, "encode %q", payload)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the generation failure surface.
const (
	// Input validation errors
	ErrCodeInvalidToken   Code = "INVALID_TOKEN"
	ErrCodeInvalidVersion Code = "INVALID_VERSION"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPreset  Code = "INVALID_PRESET"

	// ErrCodeTemplateIntegrity means the embedded base template no longer
	// matches its pinned checksum. Every seal generated by this process is
	// unreliable until the drift is resolved.
	ErrCodeTemplateIntegrity Code = "TEMPLATE_INTEGRITY"

	// ErrCodeEncodingCapacity means the payload exceeds QR capacity at the
	// selected error-correction level. The payload is never truncated.
	ErrCodeEncodingCapacity Code = "ENCODING_CAPACITY"

	// ErrCodeEmptyPattern means the dot renderer emitted zero shapes.
	// A seal with no encoded content must never be returned.
	ErrCodeEmptyPattern Code = "EMPTY_PATTERN"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
