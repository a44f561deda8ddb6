package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorResponse represents the structure of error responses sent to clients
type HTTPErrorResponse struct {
	Error     ErrorInfo              `json:"error"`
	RequestID string                 `json:"request_id,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// ErrorInfo contains the core error information
type ErrorInfo struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    string      `json:"details,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// Response builds the client-facing body and status for err.
// Storage and internal failures are reported generically; their causes stay in the logs.
func Response(err error) (int, HTTPErrorResponse) {
	if ae, ok := AsAppError(err); ok {
		info := ErrorInfo{
			Code:       ae.Code,
			Message:    ae.Message,
			Violations: ae.Violations,
		}
		status := ae.GetHTTPStatus()
		if status < http.StatusInternalServerError || ae.Code == ErrSearchConfiguration {
			info.Details = ae.Details
		}
		return status, HTTPErrorResponse{Error: info, Context: ae.Context}
	}

	if he, ok := err.(*echo.HTTPError); ok {
		if body, ok := he.Message.(HTTPErrorResponse); ok {
			return he.Code, body
		}
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, HTTPErrorResponse{Error: ErrorInfo{Code: codeForStatus(he.Code), Message: msg}}
	}

	return http.StatusInternalServerError, HTTPErrorResponse{
		Error: ErrorInfo{
			Code:    ErrInternal,
			Message: "Internal server error",
		},
	}
}

// ToHTTPError converts an AppError to an Echo HTTP error
func ToHTTPError(err error) error {
	status, body := Response(err)
	return echo.NewHTTPError(status, body).SetInternal(err)
}

// BadRequest creates a 400 Bad Request error
func BadRequest(message, details string) error {
	return echo.NewHTTPError(http.StatusBadRequest, HTTPErrorResponse{
		Error: ErrorInfo{
			Code:    ErrInvalidInput,
			Message: message,
			Details: details,
		},
	})
}

// TooManyRequests creates a 429 error
func TooManyRequests(details string) error {
	return echo.NewHTTPError(http.StatusTooManyRequests, HTTPErrorResponse{
		Error: ErrorInfo{
			Code:    ErrRateLimited,
			Message: "Too many requests",
			Details: details,
		},
	})
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status < http.StatusInternalServerError:
		return ErrInvalidInput
	default:
		return ErrInternal
	}
}
