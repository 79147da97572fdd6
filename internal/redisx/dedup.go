package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedup remembers handled event ids for TTL (TTLDedup when zero).
type Dedup struct {
	RDB   *redis.Client
	Group string
	TTL   time.Duration
}

func (d *Dedup) key(id string) string { return fmt.Sprintf(KeyDedup, d.Group, id) }

// First marks id as seen and reports whether it was new.
func (d *Dedup) First(ctx context.Context, id string) (bool, error) {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = TTLDedup
	}
	return d.RDB.SetNX(ctx, d.key(id), "1", ttl).Result()
}

func (d *Dedup) Forget(ctx context.Context, id string) error {
	return d.RDB.Del(ctx, d.key(id)).Err()
}
