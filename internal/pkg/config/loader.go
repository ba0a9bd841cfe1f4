// Package config provides fail-open environment loading for long-running
// components: an invalid value falls back to its default with a warning
// instead of stopping the process.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one setting.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// Load reads key, parses it and validates it. An unset or blank key yields
// def without a warning; a value that fails to parse or validate yields def
// with FallbackApplied set. validate may be nil.
func Load[T any](key string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", key, raw, err, def),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// LoadString loads a string setting.
func LoadString(key, def string, validate func(string) error) Result[string] {
	return Load(key, def, func(s string) (string, error) { return s, nil }, validate)
}

// LoadInt loads a base-10 integer setting.
func LoadInt(key string, def int, validate func(int) error) Result[int] {
	return Load(key, def, strconv.Atoi, validate)
}

// LoadDuration loads a time.ParseDuration setting ("30s", "5m").
func LoadDuration(key string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(key, def, time.ParseDuration, validate)
}

// LoadBool loads a strconv.ParseBool setting.
func LoadBool(key string, def bool) Result[bool] {
	return Load(key, def, strconv.ParseBool, nil)
}

// Apply returns r.Value. When a fallback was applied it logs the warning and
// records it against field in m (m may be nil). The returned bool reports
// whether a fallback happened so callers can aggregate it.
func Apply[T any](logger *slog.Logger, m *ConfigMetrics, field string, r Result[T]) (T, bool) {
	if !r.FallbackApplied {
		return r.Value, false
	}
	if logger != nil {
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", r.Warning))
	}
	if m != nil {
		m.RecordValidationError(field)
		m.RecordFallback(field)
	}
	return r.Value, true
}
