package redisx

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := Connect(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	d := &Dedup{RDB: rdb, Group: "test-" + uuid.NewString(), TTL: time.Minute}
	id := uuid.NewString()

	first, err := d.First(ctx, id)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := d.First(ctx, id)
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, d.Forget(ctx, id))
	first, err = d.First(ctx, id)
	require.NoError(t, err)
	assert.True(t, first)
	require.NoError(t, d.Forget(ctx, id))
}
