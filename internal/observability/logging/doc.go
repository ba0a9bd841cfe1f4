// Logging conventions:
//
//   - The worker logs JSON to stdout (NewLogger); the CLI logs text to stderr
//     (NewTextLogger). LOG_LEVEL picks the level for both.
//   - Every scheduled or manual run gets a UUID via WithRunID, and loggers
//     derived with WithRunIDLogger tag each line with run_id.
//   - Adapter errors pass through SanitizeError before they are logged or
//     printed, so API keys and DSN passwords never leave the process.
//
//	ctx = logging.WithRunID(ctx, uuid.NewString())
//	log := logging.WithRunIDLogger(ctx, logger)
//	log.Error("distribution failed", slog.String("error", logging.SanitizeError(err)))
package logging
