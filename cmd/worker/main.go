// Command worker publishes the stored content calendar on a cron schedule.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"leadgen/internal/app"
	"leadgen/internal/config"
	"leadgen/internal/infra/db"
	workerPkg "leadgen/internal/infra/worker"
	"leadgen/internal/observability/logging"
	"leadgen/internal/repository"
)

const (
	dbConnectAttempts = 10
	dbConnectDelay    = 3 * time.Second
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("worker stopped", slog.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("max_entries_per_run", workerConfig.MaxEntriesPerRun),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	repo, err := openCalendar(ctx, logger, a)
	if err != nil {
		return err
	}

	healthServer := workerPkg.NewHealthServer(
		fmt.Sprintf(":%d", workerConfig.HealthPort),
		logger,
		prometheus.DefaultGatherer,
		workerPkg.ReadinessCheck{Name: "database", Check: a.DB().PingContext},
	)

	j := &job{
		logger:  logger,
		runner:  a.Runner(repo),
		cfg:     workerConfig,
		metrics: workerMetrics,
	}

	c := cron.New(
		cron.WithLocation(workerConfig.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger(logger))),
	)
	if _, err := c.AddFunc(workerConfig.CronSchedule, func() { j.run(ctx) }); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := healthServer.Start(gctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		c.Start()
		healthServer.SetReady(true)
		logger.Info("worker started",
			slog.String("schedule", workerConfig.CronSchedule),
			slog.String("timezone", workerConfig.Timezone))

		<-gctx.Done()
		healthServer.SetReady(false)
		logger.Info("waiting for running job to finish")
		<-c.Stop().Done()
		return nil
	})
	return g.Wait()
}

// openCalendar waits for the database to accept connections, then applies the schema.
func openCalendar(ctx context.Context, logger *slog.Logger, a *app.App) (repository.CalendarRepository, error) {
	var lastErr error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		repo, err := a.Calendar(ctx)
		if err == nil {
			return repo, nil
		}
		if errors.Is(err, db.ErrMissingDSN) {
			return nil, err
		}
		lastErr = err
		logger.Info("waiting for database, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", dbConnectDelay),
			slog.String("error", logging.SanitizeError(err)))

		select {
		case <-time.After(dbConnectDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("database not ready after %d attempts: %w", dbConnectAttempts, lastErr)
}

// cronLogger routes robfig/cron messages through slog.
func cronLogger(logger *slog.Logger) cron.Logger {
	return cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
}
