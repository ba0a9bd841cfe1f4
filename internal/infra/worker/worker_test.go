package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/* ───────── config ───────── */

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestWorkerConfig_Validate(t *testing.T) {
	cfg := WorkerConfig{
		CronSchedule:     "bad",
		Timezone:         "Nowhere/Land",
		MaxEntriesPerRun: 0,
		RunTimeout:       time.Second,
		HealthPort:       80,
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"cron schedule", "timezone", "max entries per run", "run timeout", "health port"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "15 8 * * 1-5")
	t.Setenv("WORKER_TIMEZONE", "America/New_York")
	t.Setenv("WORKER_MAX_ENTRIES", "3")
	t.Setenv("WORKER_RUN_TIMEOUT", "45m")
	t.Setenv("WORKER_HEALTH_PORT", "9300")

	m := NewWorkerMetrics(prometheus.NewRegistry())
	cfg := LoadConfigFromEnv(discardLogger(), m)

	assert.Equal(t, WorkerConfig{
		CronSchedule:     "15 8 * * 1-5",
		Timezone:         "America/New_York",
		MaxEntriesPerRun: 3,
		RunTimeout:       45 * time.Minute,
		HealthPort:       9300,
	}, *cfg)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), 0.0)
}

func TestLoadConfigFromEnv_FallsBack(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "every morning")
	t.Setenv("WORKER_TIMEZONE", "")
	t.Setenv("WORKER_MAX_ENTRIES", "500")
	t.Setenv("WORKER_RUN_TIMEOUT", "")
	t.Setenv("WORKER_HEALTH_PORT", "")

	m := NewWorkerMetrics(prometheus.NewRegistry())
	cfg := LoadConfigFromEnv(discardLogger(), m)

	def := DefaultConfig()
	assert.Equal(t, def, *cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("max_entries_per_run")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone")))
}

func TestLoadConfigFromEnv_NilMetrics(t *testing.T) {
	t.Setenv("WORKER_HEALTH_PORT", "1")
	cfg := LoadConfigFromEnv(discardLogger(), nil)
	assert.Equal(t, 9091, cfg.HealthPort)
}

/* ───────── metrics ───────── */

func TestWorkerMetrics(t *testing.T) {
	m := NewWorkerMetrics(prometheus.NewRegistry())

	m.RecordJobRun("success")
	m.RecordJobRun("success")
	m.RecordJobRun("failure")
	m.RecordEntries(2, 1)
	m.RecordEntries(1, 0)
	m.RecordJobDuration(12)
	m.RecordLastSuccess()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CronJobEntriesTotal.WithLabelValues("published")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CronJobEntriesTotal.WithLabelValues("failed")))
	assert.Greater(t, testutil.ToFloat64(m.CronJobLastSuccessTimestamp), 0.0)
}

/* ───────── health server ───────── */

func get(t *testing.T, url string) (int, healthResponse) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealthServer_Liveness(t *testing.T) {
	h := NewHealthServer(":0", discardLogger(), prometheus.NewRegistry())
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	code, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestHealthServer_Readiness(t *testing.T) {
	dbErr := errors.New("connection refused")
	var failing atomic.Bool
	h := NewHealthServer(":0", discardLogger(), prometheus.NewRegistry(), ReadinessCheck{
		Name: "database",
		Check: func(context.Context) error {
			if failing.Load() {
				return dbErr
			}
			return nil
		},
	})
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	code, body := get(t, srv.URL+"/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body.Status)

	h.SetReady(true)
	code, body = get(t, srv.URL+"/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]string{"database": "ok"}, body.Checks)

	failing.Store(true)
	code, body = get(t, srv.URL+"/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unavailable", body.Checks["database"])
}

func TestHealthServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkerMetrics(reg)
	m.RecordJobRun("success")

	srv := httptest.NewServer(NewHealthServer(":0", discardLogger(), reg).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(raw), `worker_cron_job_runs_total{status="success"} 1`))
}

func TestHealthServer_StartStops(t *testing.T) {
	h := NewHealthServer("127.0.0.1:0", discardLogger(), prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}
