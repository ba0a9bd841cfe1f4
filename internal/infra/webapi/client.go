// Package webapi holds the HTTP plumbing shared by the third-party API adapters
// (Dev.to, Hashnode, Postiz, ConvertKit, DataForSEO): typed status errors,
// client-side rate limiting, and a JSON request helper wrapped in a circuit
// breaker. Reads are retried on transient failures; calls that create
// something remotely are sent exactly once.
package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"leadgen/internal/resilience/circuitbreaker"
	"leadgen/internal/resilience/retry"
)

// maxResponseBody caps how much of a response is read into memory.
const maxResponseBody = 4 << 20

// Client sends JSON requests to a single remote service.
type Client struct {
	service     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	breaker     *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimiter makes every attempt wait for a token first.
func WithRateLimiter(l *RateLimiter) Option {
	return func(c *Client) { c.rateLimiter = l }
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) { c.retryConfig = cfg }
}

// NewClient creates a Client for the named service.
// The name is used for the circuit breaker, log fields and error messages.
func NewClient(service string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		service:     service,
		httpClient:  &http.Client{Timeout: timeout},
		breaker:     circuitbreaker.New(circuitbreaker.PublishingAPIConfig(service)),
		retryConfig: retry.PublishingAPIConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the service name.
func (c *Client) Service() string {
	return c.service
}

// Request describes one API call. Body, when non-nil, is JSON encoded.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any

	// BasicAuthUser and BasicAuthPassword enable HTTP basic auth when the user is set.
	BasicAuthUser     string
	BasicAuthPassword string

	// Idempotent marks a non-GET call as safe to repeat, such as a POST
	// that only queries. GET and HEAD are always safe.
	Idempotent bool
}

// Retryable reports whether the request may be sent more than once.
func (r Request) Retryable() bool {
	return r.Idempotent || r.Method == http.MethodGet || r.Method == http.MethodHead
}

// DoJSON executes the request and decodes a 2xx JSON response into out (when non-nil).
// Non-2xx responses become *ClientError, *ServerError or *RateLimitError.
// Transient failures of a Retryable request are retried according to the
// client's retry policy. Any other request gets a single attempt: a 5xx or
// timeout may arrive after the remote side already created the resource.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	requestID := uuid.New().String()

	var payload []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", c.service, err)
		}
		payload = data
	}

	attempt := func() error {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Allow(ctx); err != nil {
				return fmt.Errorf("rate limiter error: %w", err)
			}
		}

		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.do(ctx, req, payload, out)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("api circuit breaker open, request rejected",
				slog.String("service", c.service),
				slog.String("request_id", requestID),
				slog.String("state", c.breaker.State().String()))
			return fmt.Errorf("%s unavailable: %w", c.service, err)
		}
		return err
	}

	start := time.Now()
	var err error
	if req.Retryable() {
		err = retry.WithBackoff(ctx, c.retryConfig, attempt)
	} else {
		err = attempt()
	}

	if err != nil {
		slog.ErrorContext(ctx, "api request failed",
			slog.String("service", c.service),
			slog.String("request_id", requestID),
			slog.String("method", req.Method),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return err
	}

	slog.DebugContext(ctx, "api request succeeded",
		slog.String("service", c.service),
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (c *Client) do(ctx context.Context, req Request, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", c.service, err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.BasicAuthUser != "" {
		httpReq.SetBasicAuth(req.BasicAuthUser, req.BasicAuthPassword)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", c.service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read %s response: %w", c.service, err)
	}

	if err := StatusError(c.service, resp, respBody); err != nil {
		return err
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.service, err)
	}
	return nil
}
