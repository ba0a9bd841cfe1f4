package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	workerPkg "leadgen/internal/infra/worker"
	"leadgen/internal/observability/logging"
	"leadgen/internal/usecase/schedule"
)

// dueRunner consumes due calendar entries.
type dueRunner interface {
	RunDue(ctx context.Context, limit int) (schedule.RunStats, error)
}

// job is one scheduled pass over the content calendar.
type job struct {
	logger  *slog.Logger
	runner  dueRunner
	cfg     *workerPkg.WorkerConfig
	metrics *workerPkg.WorkerMetrics
}

// run executes a single pass with timeout and error handling. Failed entries
// are recorded by the runner; only store errors fail the run.
func (j *job) run(parent context.Context) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(parent, j.cfg.RunTimeout)
	defer cancel()
	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger := logging.WithRunIDLogger(ctx, j.logger)

	logger.Info("calendar run started", slog.Int("limit", j.cfg.MaxEntriesPerRun))

	stats, err := j.runner.RunDue(ctx, j.cfg.MaxEntriesPerRun)
	j.metrics.RecordEntries(stats.Published, stats.Failed)
	j.metrics.RecordJobDuration(time.Since(startTime).Seconds())
	if err != nil {
		logger.Error("calendar run failed",
			slog.Int("published", stats.Published),
			slog.Int("failed", stats.Failed),
			slog.String("error", logging.SanitizeError(err)))
		j.metrics.RecordJobRun("failure")
		return
	}

	j.metrics.RecordJobRun("success")
	j.metrics.RecordLastSuccess()

	logger.Info("calendar run completed",
		slog.Int("published", stats.Published),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", time.Since(startTime)))
}
