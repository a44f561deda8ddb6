package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NewWithDetails(ErrStorage, "Storage operation failed", "Operation: count")
	assert.Equal(t, "[STORAGE] Storage operation failed: Operation: count", err.Error())

	plain := New(ErrInternal, "boom")
	assert.Equal(t, "[INTERNAL_ERROR] boom", plain.Error())
}

func TestValidationViolations_KeepsEveryViolation(t *testing.T) {
	err := ValidationViolations([]Violation{
		{Field: "size", Value: "-1", Reason: "must be greater than or equal to 0"},
		{Field: "status", Value: "bogus", Reason: "must be one of: open, closed"},
	})

	assert.True(t, IsValidation(err))
	require.Len(t, Violations(err), 2)
	assert.Equal(t, "size", Violations(err)[0].Field)
	assert.Equal(t, "status", Violations(err)[1].Field)
	assert.Contains(t, err.Details, "size must be greater than or equal to 0")
	assert.Contains(t, err.Details, `status must be one of: open, closed (got "bogus")`)
	assert.Equal(t, http.StatusBadRequest, err.GetHTTPStatus())
}

func TestStorageFailed_Unwraps(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := StorageFailed("page workshops", cause)

	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusServiceUnavailable, err.GetHTTPStatus())
}

func TestGetCode_FindsWrappedAppError(t *testing.T) {
	inner := StrategyUnavailable("index not configured")
	wrapped := fmt.Errorf("search: %w", inner)

	assert.Equal(t, ErrSearchConfiguration, GetCode(wrapped))
	assert.False(t, IsStorage(wrapped))
	assert.Equal(t, ErrorCode(""), GetCode(fmt.Errorf("plain")))
}

func TestCancelled(t *testing.T) {
	assert.Equal(t, ErrCancelled, Cancelled("count", context.Canceled).Code)
	assert.Equal(t, ErrTimeout, Cancelled("count", context.DeadlineExceeded).Code)
	assert.True(t, IsCancelled(Cancelled("page", context.Canceled)))
	assert.ErrorIs(t, Cancelled("page", context.Canceled), context.Canceled)
}

func TestResponse(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   ErrorCode
		hasDetails     bool
	}{
		{
			name:           "validation error exposes details",
			err:            ValidationFailed("from", "-3", "must be greater than or equal to 0"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrValidationFailed,
			hasDetails:     true,
		},
		{
			name:           "storage error hides cause",
			err:            StorageFailed("count providers", fmt.Errorf("dial tcp: secret-host")),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrStorage,
		},
		{
			name:           "configuration error",
			err:            StrategyUnavailable("geo search requires the search index"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrSearchConfiguration,
			hasDetails:     true,
		},
		{
			name:           "unknown error",
			err:            fmt.Errorf("unexpected"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Response(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, body.Error.Code)
			if tt.hasDetails {
				assert.NotEmpty(t, body.Error.Details)
			} else {
				assert.Empty(t, body.Error.Details)
			}
		})
	}
}
