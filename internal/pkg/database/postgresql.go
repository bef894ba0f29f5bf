package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool so every repository depends on one
// concrete handle.
type DB struct {
	*pgxpool.Pool
}

// Pool holds the connection pool bounds. They come from configuration; a
// zero value keeps the pgx default.
type Pool struct {
	MaxConns int32
	MinConns int32
}

// NewPostgreSQLDB connects and verifies the database is reachable. The
// given context bounds both the dial and the readiness ping.
func NewPostgreSQLDB(ctx context.Context, dsn string, pool Pool) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if pool.MaxConns > 0 {
		cfg.MaxConns = pool.MaxConns
	}
	if pool.MinConns > 0 {
		cfg.MinConns = pool.MinConns
	}

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: p}, nil
}
