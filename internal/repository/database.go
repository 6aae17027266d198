package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/UnknownOlympus/mnemosyne/internal/config"
	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
)

// Database is the subset of pgxpool.Pool used by the PostgreSQL repository.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(
		ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource,
	) (int64, error)
}

// NewPostgresPool creates a new PostgreSQL connection pool from cfg. DB_NAME overrides the
// database of the connection string and DB_MAX_POOL_SIZE bounds the pool.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	var (
		idleTime = 30 * time.Second
		hcPeriod = 30 * time.Second
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.Name != "" {
		poolConfig.ConnConfig.Database = cfg.Name
	}
	poolConfig.MaxConns = int32(min(cfg.MaxPoolSize, math.MaxInt32)) //nolint:gosec // clamped above
	poolConfig.MaxConnIdleTime = idleTime
	poolConfig.HealthCheckPeriod = hcPeriod

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection to PostgreSQL: %w", err)
	}

	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL DB: %w", err)
	}

	return dbpool, nil
}

// observeQuery starts a timer for queryType and returns the function recording its duration.
func observeQuery(appMetrics *metrics.Metrics, queryType string) func() {
	startTime := time.Now()

	return func() {
		if appMetrics == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		appMetrics.DBQueryDuration.WithLabelValues(queryType).Observe(duration)
	}
}
