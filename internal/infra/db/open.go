// Package db opens the Postgres connection pool and applies the schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	envconfig "leadgen/internal/pkg/config"
)

// ErrMissingDSN is returned when no connection string is configured.
var ErrMissingDSN = errors.New("DATABASE_URL not set")

const pingTimeout = 5 * time.Second

// PoolConfig sizes the connection pool. The calendar store sees one worker
// and a handful of CLI invocations, so the defaults are small.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns the pool settings used when DB_* is unset.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
	}
}

func positive(n int) error { return envconfig.ValidateIntRange(n, 1, 1000) }

// PoolConfigFromEnv reads DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS,
// DB_CONN_MAX_LIFETIME and DB_CONN_MAX_IDLE_TIME. Invalid values fall back to
// the default and are logged on logger.
func PoolConfigFromEnv(logger *slog.Logger) PoolConfig {
	def := DefaultPoolConfig()
	var cfg PoolConfig
	cfg.MaxOpenConns, _ = envconfig.Apply(logger, nil, "DB_MAX_OPEN_CONNS",
		envconfig.LoadInt("DB_MAX_OPEN_CONNS", def.MaxOpenConns, positive))
	cfg.MaxIdleConns, _ = envconfig.Apply(logger, nil, "DB_MAX_IDLE_CONNS",
		envconfig.LoadInt("DB_MAX_IDLE_CONNS", def.MaxIdleConns, positive))
	cfg.ConnMaxLifetime, _ = envconfig.Apply(logger, nil, "DB_CONN_MAX_LIFETIME",
		envconfig.LoadDuration("DB_CONN_MAX_LIFETIME", def.ConnMaxLifetime, envconfig.ValidatePositiveDuration))
	cfg.ConnMaxIdleTime, _ = envconfig.Apply(logger, nil, "DB_CONN_MAX_IDLE_TIME",
		envconfig.LoadDuration("DB_CONN_MAX_IDLE_TIME", def.ConnMaxIdleTime, envconfig.ValidatePositiveDuration))
	return cfg
}

// Open connects to dsn through the pgx stdlib driver, sizes the pool from the
// environment and pings within five seconds. The pool is closed on failure.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	database, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool := PoolConfigFromEnv(slog.Default())
	database.SetMaxOpenConns(pool.MaxOpenConns)
	database.SetMaxIdleConns(pool.MaxIdleConns)
	database.SetConnMaxLifetime(pool.ConnMaxLifetime)
	database.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Debug("database pool ready",
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Int("max_idle_conns", pool.MaxIdleConns))
	return database, nil
}
