package contentgen

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation kinds used as metric labels.
const (
	kindBlogPost = "blog_post"
	kindSocial   = "social"
)

// GenerationMetricsRecorder defines the interface for recording generation metrics.
// It lets tests inject a fake instead of the Prometheus recorder.
type GenerationMetricsRecorder interface {
	// RecordDuration records the time taken by one model call.
	RecordDuration(kind string, duration time.Duration)

	// RecordFailure increments the failure counter for a generation kind.
	RecordFailure(kind string)

	// RecordTruncated increments the counter of social posts cut to their platform cap.
	RecordTruncated(platform string)
}

// PrometheusGenerationMetrics implements GenerationMetricsRecorder using Prometheus metrics.
type PrometheusGenerationMetrics struct {
	durationHistogram *prometheus.HistogramVec
	failureCounter    *prometheus.CounterVec
	truncatedCounter  *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusGenerationMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusGenerationMetrics returns the process-wide Prometheus recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusGenerationMetrics() *PrometheusGenerationMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusGenerationMetrics{
			durationHistogram: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "leadgen_generation_duration_seconds",
				Help:    "Time taken by a language model call",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"kind"}),
			failureCounter: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "leadgen_generation_failures_total",
				Help: "Total number of failed or malformed generations",
			}, []string{"kind"}),
			truncatedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "leadgen_social_posts_truncated_total",
				Help: "Total number of social posts cut to their platform character cap",
			}, []string{"platform"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordDuration implements GenerationMetricsRecorder.RecordDuration
func (p *PrometheusGenerationMetrics) RecordDuration(kind string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordFailure implements GenerationMetricsRecorder.RecordFailure
func (p *PrometheusGenerationMetrics) RecordFailure(kind string) {
	p.failureCounter.WithLabelValues(kind).Inc()
}

// RecordTruncated implements GenerationMetricsRecorder.RecordTruncated
func (p *PrometheusGenerationMetrics) RecordTruncated(platform string) {
	p.truncatedCounter.WithLabelValues(platform).Inc()
}
