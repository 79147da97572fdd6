package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	// one local user, a couple of connections is plenty
	cfg.MaxConns = 2
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

var schema = []string{`
CREATE TABLE IF NOT EXISTS storefront_state (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`, `
CREATE TABLE IF NOT EXISTS storefront_activity (
	event_id       TEXT        PRIMARY KEY,
	event_type     TEXT        NOT NULL,
	event_version  INT         NOT NULL,
	occurred_at    TIMESTAMPTZ NOT NULL,
	producer       TEXT        NOT NULL,
	correlation_id TEXT        NOT NULL DEFAULT '',
	payload        JSONB       NOT NULL,
	recorded_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`}

// EnsureSchema creates the local state and activity tables if they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
