package storage

import (
	"context"
	"fmt"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// DB is the PostgreSQL journal backed by a pgxpool.Pool.
type DB struct {
	Pool *pgxpool.Pool
}

// OpenPostgres applies migrations and connects to the database at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	if err := RunMigrations(DriverPostgres, dsn); err != nil {
		return nil, err
	}
	return New(ctx, dsn)
}

// New creates a new DB with a connection pool.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

// Collector exposes connection pool statistics to Prometheus.
func (db *DB) Collector() prometheus.Collector {
	return pgxpoolprometheus.NewCollector(db.Pool, map[string]string{"db_name": "fitplanner"})
}
