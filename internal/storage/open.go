package storage

import (
	"context"
	"fmt"

	"github.com/ariefcatur/storefront-client/internal/config"
	"github.com/ariefcatur/storefront-client/internal/postgres"
	"github.com/ariefcatur/storefront-client/internal/redisx"
)

// Open builds the backend named by cfg.StorageDriver. Network backends are
// pinged before they are returned.
func Open(ctx context.Context, cfg config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "file":
		return NewFile(cfg.StorageDir)
	case "memory":
		return NewMemory(), nil
	case "redis":
		rdb, err := redisx.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("redis storage: %w", err)
		}
		return NewRedis(rdb, cfg.StorageNamespace), nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres storage: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		return &Postgres{DB: pool, Namespace: cfg.StorageNamespace}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
