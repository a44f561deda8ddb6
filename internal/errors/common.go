package errors

import (
	"context"
	"fmt"
	"strings"
)

// Configuration Errors
func ConfigNotFound(path string) *AppError {
	return NewWithDetails(ErrConfigNotFound, "Configuration file not found", fmt.Sprintf("Path: %s", path))
}

func ConfigInvalid(reason string) *AppError {
	return NewWithDetails(ErrConfigInvalid, "Invalid configuration", reason)
}

func ConfigParseError(cause error) *AppError {
	return Wrap(ErrConfigParse, "Failed to parse configuration", cause)
}

// Validation Errors

// ValidationFailed reports a single violated constraint.
func ValidationFailed(field, value, reason string) *AppError {
	return ValidationViolations([]Violation{{Field: field, Value: value, Reason: reason}})
}

// ValidationViolations reports every violated constraint of one input at once.
func ValidationViolations(violations []Violation) *AppError {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	list := make([]Violation, len(violations))
	copy(list, violations)
	return &AppError{
		Code:       ErrValidationFailed,
		Message:    "Validation failed",
		Details:    strings.Join(parts, "; "),
		Violations: list,
	}
}

// Violations returns the violation list carried by a validation error.
func Violations(err error) []Violation {
	if ae, ok := AsAppError(err); ok && ae.Code == ErrValidationFailed {
		return ae.Violations
	}
	return nil
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return HasCode(err, ErrValidationFailed)
}

func InvalidInput(field, reason string) *AppError {
	return NewWithDetails(ErrInvalidInput, "Invalid input", fmt.Sprintf("Field: %s, Reason: %s", field, reason))
}

// Storage Errors

// StorageFailed wraps a failed repository or index call.
func StorageFailed(operation string, cause error) *AppError {
	return WrapWithDetails(ErrStorage, "Storage operation failed",
		fmt.Sprintf("Operation: %s", operation), cause)
}

// IsStorage reports whether err signals an unavailable or failing backing store
func IsStorage(err error) bool {
	switch GetCode(err) {
	case ErrStorage, ErrDatabaseConnection, ErrDatabaseQuery, ErrIndexUnavailable:
		return true
	}
	return false
}

func DatabaseConnectionError(cause error) *AppError {
	return Wrap(ErrDatabaseConnection, "Failed to connect to database", cause)
}

func DatabaseQueryError(query string, cause error) *AppError {
	return WrapWithDetails(ErrDatabaseQuery, "Database query failed",
		fmt.Sprintf("Query: %s", query), cause)
}

func DatabaseMigrationError(cause error) *AppError {
	return Wrap(ErrDatabaseMigration, "Database migration failed", cause)
}

func IndexUnavailable(reason string, cause error) *AppError {
	return WrapWithDetails(ErrIndexUnavailable, "Search index unavailable", reason, cause)
}

// Search Strategy Errors

// StrategyUnavailable reports that no search strategy can serve a filter.
func StrategyUnavailable(reason string) *AppError {
	return NewWithDetails(ErrSearchConfiguration, "No search strategy available", reason)
}

// Request Errors
func NotFoundError(resource, id string) *AppError {
	return NewWithDetails(ErrNotFound, "Resource not found",
		fmt.Sprintf("%s with ID '%s' not found", resource, id))
}

// Cancelled wraps a context error observed during operation.
func Cancelled(operation string, cause error) *AppError {
	code := ErrCancelled
	if Is(cause, context.DeadlineExceeded) {
		code = ErrTimeout
	}
	return WrapWithDetails(code, "Operation cancelled", fmt.Sprintf("Operation: %s", operation), cause)
}

// IsCancelled reports whether err came from a cancelled or expired context
func IsCancelled(err error) bool {
	return HasCode(err, ErrCancelled) || HasCode(err, ErrTimeout)
}

// File Errors
func FileReadError(path string, cause error) *AppError {
	return WrapWithDetails(ErrFileRead, "Failed to read file", fmt.Sprintf("Path: %s", path), cause)
}

func FileWriteError(path string, cause error) *AppError {
	return WrapWithDetails(ErrFileWrite, "Failed to write file", fmt.Sprintf("Path: %s", path), cause)
}

func InternalError(message string, cause error) *AppError {
	return Wrap(ErrInternal, message, cause)
}
