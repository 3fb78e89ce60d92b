package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/DigitalMasterpieces/wishkit-go/pkg/errors"
)

// maxErrorBody caps how much of an error response body is read.
const maxErrorBody = 1 << 20

// StatusError is a non-2xx response whose body has already been consumed.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// errorBody covers the error shapes a remote API may answer with: a bare
// {"reason": "..."} object, or the nested {"error": {"code", "message"}}
// envelope.
type errorBody struct {
	Reason string `json:"reason"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ReasonFromBody extracts a human-readable reason from an error response body.
// It falls back to the trimmed raw body, then to the status text.
func ReasonFromBody(status int, body []byte) string {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Reason != "" {
			return parsed.Reason
		}
		if parsed.Error != nil && parsed.Error.Message != "" {
			return parsed.Error.Message
		}
	}
	if raw := strings.TrimSpace(string(body)); raw != "" && len(raw) <= 200 && !strings.HasPrefix(raw, "<") {
		return raw
	}
	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return fmt.Sprintf("status %d", status)
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into a transport AppError carrying the remote reason. The response body
// is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apperrors.Transport(
			fmt.Sprintf("%s returned status %d", serviceName, resp.StatusCode),
			fmt.Errorf("read error body: %w", err),
		)
	}

	return apperrors.Transport(ReasonFromBody(resp.StatusCode, body), &StatusError{StatusCode: resp.StatusCode, Body: body})
}

// AsTransportError converts an error returned by Do (network failure, 5xx
// StatusError, open breaker) into a transport AppError with a readable reason.
func AsTransportError(err error, serviceName string) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperrors.ErrTransport) {
		return err
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return apperrors.Transport(ReasonFromBody(statusErr.StatusCode, statusErr.Body), err)
	case errors.Is(err, ErrCircuitOpen), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperrors.Transport(serviceName+" is temporarily unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Transport(serviceName+" did not respond in time", err)
	case errors.Is(err, context.Canceled):
		return apperrors.Transport("request canceled", err)
	default:
		return apperrors.Transport(fmt.Sprintf("could not reach %s", serviceName), err)
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
