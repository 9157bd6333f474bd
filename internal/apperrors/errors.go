// Package apperrors provides typed error handling for the viewer.
// It uses struct-based errors with separate user-safe and internal messages.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code categorizes errors for consistent handling across the application.
type Code int

// Error codes for categorizing application errors.
const (
	// CodeUnknown indicates an unspecified error type
	CodeUnknown Code = iota
	// CodeNotFound indicates a requested resource does not exist
	CodeNotFound
	// CodeInvalidInput indicates malformed or missing input
	CodeInvalidInput
	// CodeUnauthorized indicates the upstream API rejected our credential
	CodeUnauthorized
	// CodeUpstream indicates any other failure reported by the storage API
	CodeUpstream
	// CodeStorage indicates a credential store failure
	CodeStorage
)

// Error represents a domain error with separate user-safe and internal messages.
// The Message field is always safe to expose to clients.
// The Internal field contains debugging details and should only be logged.
type Error struct {
	Code     Code   // Error category for handler mapping
	Status   int    // HTTP status reported by an upstream service, if any
	Message  string // User-safe message (always exposable)
	Internal string // Internal details (for logging only)
	Err      error  // Wrapped underlying error
}

// Error implements the error interface.
// Returns the user-safe message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithInternal adds internal debugging details to the error.
func (e *Error) WithInternal(format string, args ...any) *Error {
	e.Internal = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps an underlying error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// HTTPStatus returns the status code a handler should answer with.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeUnknown:
		return "unknown"
	case CodeNotFound:
		return "not_found"
	case CodeInvalidInput:
		return "invalid_input"
	case CodeUnauthorized:
		return "unauthorized"
	case CodeUpstream:
		return "upstream"
	case CodeStorage:
		return "storage"
	default:
		return fmt.Sprintf("unknown_code_%d", c)
	}
}

// Is reports whether target matches this error's code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUnauthorized = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrUpstream     = &Error{Code: CodeUpstream, Message: "upstream error"}
)

// NotFound creates a new not found error with the given message.
func NotFound(message string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: message,
	}
}

// InvalidInput creates a new invalid input error with the given message.
func InvalidInput(message string) *Error {
	return &Error{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// Storage creates a new credential store error with the given message.
func Storage(message string) *Error {
	return &Error{
		Code:    CodeStorage,
		Message: message,
	}
}

// Upstream classifies a failure reported by a remote API by its HTTP status.
func Upstream(status int, message string) *Error {
	code := CodeUpstream
	switch status {
	case http.StatusUnauthorized:
		code = CodeUnauthorized
	case http.StatusNotFound:
		code = CodeNotFound
	}
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
