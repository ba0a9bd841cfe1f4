package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgen/internal/resilience/retry"
)

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:    2,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}
}

func TestClient_DoJSON_Success(t *testing.T) {
	var gotBody map[string]any
	var gotHeader, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("api-key")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 42, "url": "https://dev.to/x/42"}`))
	}))
	defer server.Close()

	client := NewClient("test-api", 5*time.Second, WithRetryConfig(fastRetry()))

	var out struct {
		ID  int    `json:"id"`
		URL string `json:"url"`
	}
	err := client.DoJSON(context.Background(), Request{
		Method: http.MethodPost,
		URL:    server.URL,
		Header: http.Header{"api-key": []string{"secret"}},
		Body:   map[string]string{"title": "hello"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, 42, out.ID)
	assert.Equal(t, "https://dev.to/x/42", out.URL)
	assert.Equal(t, "secret", gotHeader)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "hello", gotBody["title"])
}

func TestClient_DoJSON_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "login" || pass != "password" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("test-api", 5*time.Second, WithRetryConfig(fastRetry()))
	err := client.DoJSON(context.Background(), Request{
		Method:            http.MethodPost,
		URL:               server.URL,
		BasicAuthUser:     "login",
		BasicAuthPassword: "password",
	}, nil)

	assert.NoError(t, err)
}

func TestClient_DoJSON_RetriesServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := NewClient("test-api", 5*time.Second, WithRetryConfig(fastRetry()))

	var out struct {
		OK bool `json:"ok"`
	}
	err := client.DoJSON(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, &out)

	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_DoJSON_CreateSentOnce(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient("test-api", 5*time.Second, WithRetryConfig(fastRetry()))
	err := client.DoJSON(context.Background(), Request{Method: http.MethodPost, URL: server.URL, Body: map[string]string{"title": "t"}}, nil)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_DoJSON_IdempotentPostRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("test-api", 5*time.Second, WithRetryConfig(fastRetry()))
	err := client.DoJSON(context.Background(), Request{Method: http.MethodPost, URL: server.URL, Idempotent: true}, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRequest_Retryable(t *testing.T) {
	tests := []struct {
		req  Request
		want bool
	}{
		{Request{Method: http.MethodGet}, true},
		{Request{Method: http.MethodHead}, true},
		{Request{Method: http.MethodPost}, false},
		{Request{Method: http.MethodPut}, false},
		{Request{Method: http.MethodPost, Idempotent: true}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.req.Retryable(), "%s idempotent=%v", tt.req.Method, tt.req.Idempotent)
	}
}

func TestClient_DoJSON_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid api key"}`))
	}))
	defer server.Close()

	client := NewClient("test-api", 5*time.Second, WithRetryConfig(fastRetry()))
	err := client.DoJSON(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)

	require.Error(t, err)
	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, http.StatusUnauthorized, clientErr.StatusCode)
	assert.Contains(t, clientErr.Message, "invalid api key")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_DoJSON_ServerErrorExhaustsAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("test-api", 5*time.Second, WithRetryConfig(fastRetry()))
	err := client.DoJSON(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusServiceUnavailable, serverErr.HTTPStatus())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_DoJSON_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient("test-api", 5*time.Second, WithRetryConfig(fastRetry()))
	var out map[string]any
	err := client.DoJSON(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode test-api response")
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		check  func(t *testing.T, err error)
	}{
		{
			name:   "2xx is nil",
			status: http.StatusOK,
			check:  func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:   "429 with Retry-After",
			status: http.StatusTooManyRequests,
			header: http.Header{"Retry-After": []string{"30"}},
			check: func(t *testing.T, err error) {
				var rl *RateLimitError
				require.True(t, errors.As(err, &rl))
				assert.Equal(t, 30*time.Second, rl.RetryAfter)
				assert.True(t, retry.IsRetryable(err))
			},
		},
		{
			name:   "429 default retry after",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				var rl *RateLimitError
				require.True(t, errors.As(err, &rl))
				assert.Equal(t, 5*time.Second, rl.RetryAfter)
			},
		},
		{
			name:   "404 is client error",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				var ce *ClientError
				require.True(t, errors.As(err, &ce))
				assert.False(t, retry.IsRetryable(err))
			},
		},
		{
			name:   "500 is server error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var se *ServerError
				require.True(t, errors.As(err, &se))
				assert.True(t, retry.IsRetryable(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == nil {
				header = http.Header{}
			}
			resp := &http.Response{StatusCode: tt.status, Header: header}
			tt.check(t, StatusError("svc", resp, []byte("body")))
		})
	}
}
