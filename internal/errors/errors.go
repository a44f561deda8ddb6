// Package errors provides typed error definitions for the catalog service.
// Every failure that crosses a package boundary is an *AppError carrying a
// stable code, so callers can classify it without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Configuration errors
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"

	// Search strategy errors
	ErrSearchConfiguration ErrorCode = "SEARCH_CONFIGURATION"

	// Storage errors
	ErrStorage            ErrorCode = "STORAGE"
	ErrDatabaseConnection ErrorCode = "DATABASE_CONNECTION"
	ErrDatabaseQuery      ErrorCode = "DATABASE_QUERY"
	ErrDatabaseMigration  ErrorCode = "DATABASE_MIGRATION"
	ErrIndexUnavailable   ErrorCode = "INDEX_UNAVAILABLE"

	// Validation errors
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"

	// Request errors
	ErrNotFound    ErrorCode = "NOT_FOUND"
	ErrRateLimited ErrorCode = "RATE_LIMITED"

	// Internal errors
	ErrInternal  ErrorCode = "INTERNAL_ERROR"
	ErrTimeout   ErrorCode = "TIMEOUT"
	ErrCancelled ErrorCode = "CANCELLED"

	// File/IO errors
	ErrFileRead  ErrorCode = "FILE_READ"
	ErrFileWrite ErrorCode = "FILE_WRITE"
)

// Violation describes one failed constraint on a single input field
type Violation struct {
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	if v.Value == "" {
		return fmt.Sprintf("%s %s", v.Field, v.Reason)
	}
	return fmt.Sprintf("%s %s (got %q)", v.Field, v.Reason, v.Value)
}

// AppError represents a structured error with additional context
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Violations []Violation            `json:"violations,omitempty"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause adds the underlying cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// GetHTTPStatus returns the appropriate HTTP status code for this error
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}

	switch e.Code {
	case ErrNotFound, ErrConfigNotFound:
		return http.StatusNotFound
	case ErrValidationFailed, ErrInvalidInput:
		return http.StatusBadRequest
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrStorage, ErrDatabaseConnection, ErrDatabaseQuery, ErrIndexUnavailable:
		return http.StatusServiceUnavailable
	case ErrTimeout, ErrCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new AppError with details
func NewWithDetails(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new AppError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetails creates a new AppError with details that wraps an existing error
func WrapWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// AsAppError finds the first *AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsAppError checks if an error is (or wraps) an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// GetCode extracts the error code from an error, if it's an AppError
func GetCode(err error) ErrorCode {
	if ae, ok := AsAppError(err); ok {
		return ae.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
