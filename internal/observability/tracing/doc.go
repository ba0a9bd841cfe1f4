// Package tracing provides OpenTelemetry tracing integration.
//
// The pipeline opens one span per step (generate, publish, repurpose, and one
// per distributor) and the worker wraps its health and metrics endpoints with
// Middleware. Exporters are configured by the embedding binary through the
// global tracer provider.
//
// Example usage:
//
//	func generate(ctx context.Context) (err error) {
//	    ctx, span := tracing.StartSpan(ctx, "pipeline.generate")
//	    defer func() { tracing.EndSpan(span, err) }()
//	    // ... call the content source ...
//	}
package tracing
