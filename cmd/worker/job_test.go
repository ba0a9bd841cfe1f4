package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workerPkg "leadgen/internal/infra/worker"
	"leadgen/internal/observability/logging"
	"leadgen/internal/usecase/schedule"
)

type stubRunner struct {
	stats    schedule.RunStats
	err      error
	gotLimit int
	gotRunID string
	deadline bool
}

func (s *stubRunner) RunDue(ctx context.Context, limit int) (schedule.RunStats, error) {
	s.gotLimit = limit
	s.gotRunID = logging.RunIDFromContext(ctx)
	_, s.deadline = ctx.Deadline()
	return s.stats, s.err
}

func newTestJob(t *testing.T, runner dueRunner) (*job, *workerPkg.WorkerMetrics) {
	t.Helper()
	m := workerPkg.NewWorkerMetrics(prometheus.NewRegistry())
	cfg := workerPkg.DefaultConfig()
	cfg.MaxEntriesPerRun = 3
	cfg.RunTimeout = time.Minute
	return &job{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		runner:  runner,
		cfg:     &cfg,
		metrics: m,
	}, m
}

func TestJob_Success(t *testing.T) {
	runner := &stubRunner{stats: schedule.RunStats{Published: 2, Failed: 1}}
	j, m := newTestJob(t, runner)

	j.run(context.Background())

	assert.Equal(t, 3, runner.gotLimit)
	assert.NotEmpty(t, runner.gotRunID)
	assert.True(t, runner.deadline)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CronJobEntriesTotal.WithLabelValues("published")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CronJobEntriesTotal.WithLabelValues("failed")))
	assert.Greater(t, testutil.ToFloat64(m.CronJobLastSuccessTimestamp), 0.0)

	var h dto.Metric
	require.NoError(t, m.CronJobDurationSeconds.Write(&h))
	assert.Equal(t, uint64(1), h.GetHistogram().GetSampleCount())
}

func TestJob_StoreFailure(t *testing.T) {
	runner := &stubRunner{
		stats: schedule.RunStats{Published: 1},
		err:   errors.New("calendar store: connection refused"),
	}
	j, m := newTestJob(t, runner)

	j.run(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CronJobEntriesTotal.WithLabelValues("published")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CronJobLastSuccessTimestamp))
}
