package persistence

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adpulse/gateway/internal/infra/config"
	"github.com/adpulse/gateway/pkg/execution"
)

// NewConnectionPool creates a database connection pool from the gateway
// configuration and verifies it with a ping.
func NewConnectionPool(ctx context.Context, dbConfig config.DatabaseConfig, serverConfig config.ServerConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dbConfig.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	if serverConfig.Mode == "production" && !dbConfig.TLS.Enabled {
		return nil, fmt.Errorf("database connection must use TLS in production mode")
	}

	if dbConfig.TLS.Enabled {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: poolConfig.ConnConfig.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	if dbConfig.Connection.MaxConns > 0 {
		poolConfig.MaxConns = dbConfig.Connection.MaxConns
	}
	if dbConfig.Connection.MinConns > 0 {
		poolConfig.MinConns = dbConfig.Connection.MinConns
	}
	if dbConfig.Connection.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = dbConfig.Connection.MaxConnIdleTime
	}
	if dbConfig.Connection.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = dbConfig.Connection.MaxConnLifetime
	}
	if dbConfig.Connection.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = dbConfig.Connection.HealthCheckPeriod
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// The database may still be starting when the gateway boots; retry the
	// initial ping before giving up.
	_, err = execution.WithRetry(ctx, 5, 500*time.Millisecond, 5*time.Second,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, pool.Ping(ctx)
		})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
