// Package errors provides structured error types for layerpaste.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor, the compose command and the exporter
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Resource not found
//   - NETWORK_ERROR, TIMEOUT: Network-related errors
//   - NO_LAYERS, EMPTY_BOUNDS: Export preconditions that were not met (warnings)
//   - RASTERIZE_*, RASTERIZER_*, TAINTED_SOURCE: Rasterizer availability and failures
//   - INTERNAL_ERROR: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoLayers, "nothing to export")
//	if errors.IsWarning(err) {
//	    // Tell the user, but this is not a failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRasterizeFailed, origErr, "export failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidImage  Code = "INVALID_IMAGE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Export preconditions
	ErrCodeNoLayers         Code = "NO_LAYERS"
	ErrCodeEmptyBounds      Code = "EMPTY_BOUNDS"
	ErrCodeExportInProgress Code = "EXPORT_IN_PROGRESS"

	// Rasterizer errors
	ErrCodeRasterizerUnavailable Code = "RASTERIZER_UNAVAILABLE"
	ErrCodeRasterizeFailed       Code = "RASTERIZE_FAILED"
	ErrCodeTainted               Code = "TAINTED_SOURCE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// warningCodes are the codes reported to the user as warnings rather than
// failures: the operation was skipped because there was nothing to do.
var warningCodes = map[Code]bool{
	ErrCodeNoLayers:         true,
	ErrCodeEmptyBounds:      true,
	ErrCodeExportInProgress: true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Hint    string // Actionable guidance (optional)
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

// WithHint attaches actionable guidance and returns e.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
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

// IsWarning reports whether err carries a precondition code that should be
// shown as a warning instead of an error.
func IsWarning(err error) bool {
	return warningCodes[GetCode(err)]
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

// Hint returns the guidance attached to the first *Error in the chain that
// has one, or "".
func Hint(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Hint != "" {
			return e.Hint
		}
		err = e.Cause
	}
	return ""
}
