// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track one generate-publish-distribute run per post
var (
	// PipelineRunsTotal counts pipeline runs by outcome (success, generation_failed, publish_failed)
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_pipeline_runs_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	// PipelineStepDuration measures each pipeline step in seconds
	PipelineStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadgen_pipeline_step_duration_seconds",
			Help:    "Duration of each pipeline step in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"step"},
	)

	// PostsPublishedTotal counts posts written to the local site by niche
	PostsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_posts_published_total",
			Help: "Total number of posts written to the local site",
		},
		[]string{"niche"},
	)

	// DistributionsTotal counts distributor invocations by target and status
	DistributionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_distributions_total",
			Help: "Total number of distribution attempts by target and status",
		},
		[]string{"target", "status"},
	)
)

// Calendar and research metrics
var (
	// CalendarEntriesGenerated counts calendar entries emitted by niche
	CalendarEntriesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_calendar_entries_generated_total",
			Help: "Total number of calendar entries generated",
		},
		[]string{"niche"},
	)

	// KeywordsResearched counts keyword records returned by the research API and kept by the filter
	KeywordsResearched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_keywords_researched_total",
			Help: "Total number of keyword records returned and kept after filtering",
		},
		[]string{"stage"}, // stage: suggested, kept
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)
