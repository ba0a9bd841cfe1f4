// Package observability groups how leadgen reports on itself.
//
// logging builds the slog loggers and carries run IDs; metrics registers the
// Prometheus collectors for pipeline runs, generator calls and distribution
// outcomes; tracing wraps pipeline steps and the worker's HTTP endpoints in
// OpenTelemetry spans. The worker serves /metrics from the default registry.
package observability
