package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/storefront-client/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Redis stores records as plain string keys without TTL: local state lives
// until it is removed, like browser local storage.
type Redis struct {
	rdb       *redis.Client
	namespace string
}

func NewRedis(rdb *redis.Client, namespace string) *Redis {
	return &Redis{rdb: rdb, namespace: namespace}
}

func (r *Redis) key(k string) string {
	return fmt.Sprintf(redisx.KeyState, r.namespace, k)
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}

func (r *Redis) Close() error { return r.rdb.Close() }
