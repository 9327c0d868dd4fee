package database

import (
	"context"
	"fmt"
	"time"

	"shams-elarab/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	firstRetryDelay = 500 * time.Millisecond
	maxRetryDelay   = 8 * time.Second
)

// Pinger is satisfied by *pgxpool.Pool. The health endpoint depends on it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewPool creates the PostgreSQL connection pool shared by all repositories.
// The first ping is retried with doubling delays up to cfg.ConnectAttempts
// times, since the binaries usually start alongside the database.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	log := logger.With().Str("component", "database").Logger()

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "shams-elarab"

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := waitForDatabase(ctx, pool, cfg.ConnectAttempts, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Msg("database connection pool ready")

	return pool, nil
}

func waitForDatabase(ctx context.Context, db Pinger, attempts int, log zerolog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}

	delay := firstRetryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = db.Ping(ctx); err == nil {
			return nil
		}
		if attempt >= attempts {
			break
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("database not reachable yet")

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = min(delay*2, maxRetryDelay)
	}

	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}
