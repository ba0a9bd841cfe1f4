package webapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Typed errors shared by every API adapter. They carry the HTTP status so
// retry.IsRetryable can classify them without knowing the adapter.

// RateLimitError represents a 429 response from a remote API.
type RateLimitError struct {
	Service    string
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (retry after %v)", e.Service, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limit exceeded (retry after %v)", e.Service, e.RetryAfter)
}

// HTTPStatus implements retry.StatusCoder.
func (e *RateLimitError) HTTPStatus() int { return http.StatusTooManyRequests }

// ClientError represents a 4xx response (other than 429). It is never retried.
type ClientError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: client error %d: %s", e.Service, e.StatusCode, e.Message)
}

// HTTPStatus implements retry.StatusCoder.
func (e *ClientError) HTTPStatus() int { return e.StatusCode }

// ServerError represents a 5xx response.
type ServerError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: server error %d: %s", e.Service, e.StatusCode, e.Message)
}

// HTTPStatus implements retry.StatusCoder.
func (e *ServerError) HTTPStatus() int { return e.StatusCode }

// ErrNotConfigured is returned by adapters whose credentials are missing.
var ErrNotConfigured = errors.New("integration not configured")

// maxErrorBody bounds how much of a response body ends up in an error message.
const maxErrorBody = 512

// StatusError converts a non-2xx response into a typed error.
// It returns nil for 2xx statuses.
func StatusError(service string, resp *http.Response, body []byte) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	msg := string(body)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}

	switch {
	case code == http.StatusTooManyRequests:
		return &RateLimitError{
			Service:    service,
			RetryAfter: retryAfter(resp),
			Message:    msg,
		}
	case code >= 400 && code < 500:
		return &ClientError{Service: service, StatusCode: code, Message: msg}
	case code >= 500:
		return &ServerError{Service: service, StatusCode: code, Message: msg}
	}
	return fmt.Errorf("%s: unexpected status code %d: %s", service, code, msg)
}

// retryAfter reads the Retry-After header in seconds, defaulting to 5s.
func retryAfter(resp *http.Response) time.Duration {
	if h := resp.Header.Get("Retry-After"); h != "" {
		if seconds, err := strconv.Atoi(h); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 5 * time.Second
}
