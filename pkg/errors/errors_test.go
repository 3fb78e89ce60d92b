package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrInternal, ErrConflict,
		ErrServiceUnavail, ErrTransport, ErrStale,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("connection reset")
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: inner}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "connection reset")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "wish not found"}
	assert.Equal(t, "NOT_FOUND: wish not found", appErr.Error())
}

func TestAppError_Unwrap_Nil(t *testing.T) {
	appErr := &AppError{Code: "TEST", Message: "test"}
	assert.Nil(t, appErr.Unwrap())
}

// --- Constructor functions ---

func TestNew_IsComparableAndClassified(t *testing.T) {
	errOwn := New("OWN_WISH", "cannot vote for own wish", http.StatusForbidden, ErrConflict)

	wrapped := fmt.Errorf("cast vote: %w", errOwn)
	assert.True(t, errors.Is(wrapped, errOwn))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(wrapped))
}

func TestNotFound(t *testing.T) {
	err := NotFound("wish", "abc-123")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "wish")
	assert.Contains(t, err.Message, "abc-123")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("title is required")
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestTransport(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Transport("service unreachable", cause)

	assert.Equal(t, "TRANSPORT_ERROR", err.Code)
	assert.Equal(t, "service unreachable", err.Message)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, cause))
}

func TestTransport_NilCause(t *testing.T) {
	err := Transport("timeout", nil)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "quota exceeded", Reason(fmt.Errorf("vote: %w", Transport("quota exceeded", nil))))
	assert.Equal(t, "plain", Reason(errors.New("plain")))
}

// --- HTTPStatus ---

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Conflict("dup"), http.StatusConflict},
		{"wrapped not found", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"transport", fmt.Errorf("x: %w", ErrTransport), http.StatusBadGateway},
		{"unavailable", ServiceUnavailable("down"), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "load wish")
	assert.Equal(t, "load wish: resource not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}
