// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application metrics:
//   - Pipeline runs, step durations and published posts
//   - Distribution attempts per target
//   - Calendar generation and keyword research volume
//   - Database query metrics
//
// All metrics are registered with the Prometheus default registry and exposed
// by the worker's /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	draft, err := source.GenerateBlogPost(ctx, niche, topic)
//	metrics.RecordStepDuration("generate", time.Since(start))
package metrics
