package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"leadgen/internal/pkg/config"
)

// WorkerMetrics are the worker's Prometheus metrics. It embeds the
// worker_config_* metrics from ConfigMetrics and adds:
//
//	worker_cron_job_runs_total{status}
//	worker_cron_job_duration_seconds
//	worker_cron_job_entries_total{outcome}
//	worker_cron_job_last_success_timestamp
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal            *prometheus.CounterVec
	CronJobDurationSeconds      prometheus.Histogram
	CronJobEntriesTotal         *prometheus.CounterVec
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg (nil means the
// default registry).
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		CronJobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status (success/failure)",
		}, []string{"status"}),

		// a run generates at least one post with an LLM, so seconds to tens of minutes
		CronJobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{1, 10, 30, 60, 180, 600, 1800},
		}),

		CronJobEntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_entries_total",
			Help: "Calendar entries consumed by the worker, by outcome (published/failed)",
		}, []string{"outcome"}),

		CronJobLastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}),
	}
}

// RecordJobRun counts one run; status is "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordEntries adds the published and failed entry counts of one run.
func (m *WorkerMetrics) RecordEntries(published, failed int) {
	m.CronJobEntriesTotal.WithLabelValues("published").Add(float64(published))
	m.CronJobEntriesTotal.WithLabelValues("failed").Add(float64(failed))
}

func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
