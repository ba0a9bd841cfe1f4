// Package worker holds the runtime pieces of the scheduled publishing worker:
// its fail-open configuration, Prometheus metrics and the health server.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"leadgen/internal/pkg/config"
)

// WorkerConfig controls when and how much the worker publishes.
//
// Environment variables:
//   - CRON_SCHEDULE: five-field cron expression (default "0 9 * * *")
//   - WORKER_TIMEZONE: IANA timezone of the schedule and of "today" (default "UTC")
//   - WORKER_MAX_ENTRIES: calendar entries consumed per run, 1-20 (default 1)
//   - WORKER_RUN_TIMEOUT: upper bound for one run, 1m-4h (default 30m)
//   - WORKER_HEALTH_PORT: port of the health and metrics server, 1024-65535 (default 9091)
type WorkerConfig struct {
	CronSchedule     string
	Timezone         string
	MaxEntriesPerRun int
	RunTimeout       time.Duration
	HealthPort       int
}

// DefaultConfig returns the configuration used when nothing is set:
// one post per day at 09:00 UTC.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:     "0 9 * * *",
		Timezone:         "UTC",
		MaxEntriesPerRun: 1,
		RunTimeout:       30 * time.Minute,
		HealthPort:       9091,
	}
}

// Validate checks every field and reports all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validateMaxEntries(c.MaxEntriesPerRun); err != nil {
		errs = append(errs, fmt.Errorf("max entries per run: %w", err))
	}
	if err := validateRunTimeout(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := validatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the schedule's timezone, falling back to UTC.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func validateMaxEntries(v int) error { return config.ValidateIntRange(v, 1, 20) }

func validateRunTimeout(d time.Duration) error {
	return config.ValidateDuration(d, time.Minute, 4*time.Hour)
}

func validatePort(v int) error { return config.ValidateIntRange(v, 1024, 65535) }

// LoadConfigFromEnv loads the worker configuration with the fail-open
// strategy: every invalid value is replaced by its default, logged and
// counted in metrics. It never returns an invalid configuration.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	var cm *config.ConfigMetrics
	if metrics != nil {
		cm = metrics.ConfigMetrics
	}

	var fellBack, active bool
	cfg.CronSchedule, fellBack = config.Apply(logger, cm, "cron_schedule",
		config.LoadString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule))
	active = active || fellBack
	cfg.Timezone, fellBack = config.Apply(logger, cm, "timezone",
		config.LoadString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	active = active || fellBack
	cfg.MaxEntriesPerRun, fellBack = config.Apply(logger, cm, "max_entries_per_run",
		config.LoadInt("WORKER_MAX_ENTRIES", cfg.MaxEntriesPerRun, validateMaxEntries))
	active = active || fellBack
	cfg.RunTimeout, fellBack = config.Apply(logger, cm, "run_timeout",
		config.LoadDuration("WORKER_RUN_TIMEOUT", cfg.RunTimeout, validateRunTimeout))
	active = active || fellBack
	cfg.HealthPort, fellBack = config.Apply(logger, cm, "health_port",
		config.LoadInt("WORKER_HEALTH_PORT", cfg.HealthPort, validatePort))
	active = active || fellBack

	if cm != nil {
		cm.SetFallbackActive(active)
		cm.RecordLoadTimestamp()
	}
	return &cfg
}
