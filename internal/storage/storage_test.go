package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ariefcatur/storefront-client/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, found)

	const v = `[{"product_id":7,"name":"Mug","price":"12.50","quantity":2}]`
	require.NoError(t, s.Set(ctx, KeyCart, v))
	got, found, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, v, got)

	require.NoError(t, s.Set(ctx, KeyCart, "[]"))
	got, _, err = s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	// other keys are untouched
	_, found, err = s.Get(ctx, KeySession)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Remove(ctx, KeyCart))
	_, found, err = s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, found)

	// removing a missing key is fine
	require.NoError(t, s.Remove(ctx, KeyCart))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exercise(t, m)

	require.NoError(t, m.Close())
	_, _, err := m.Get(context.Background(), KeyCart)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set(context.Background(), KeyCart, "x"), ErrClosed)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "state"))
	require.NoError(t, err)
	exercise(t, f)
}

func TestFileSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Set(context.Background(), KeySession, `{"token":"t"}`))

	f2, err := NewFile(dir)
	require.NoError(t, err)
	got, found, err := f2.Get(context.Background(), KeySession)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"token":"t"}`, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileRejectsPathKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, f.Set(context.Background(), "../escape", "x"))
	_, _, err = f.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StorageDriver: "nope"})
	assert.Error(t, err)
}

func TestOpenMemory(t *testing.T) {
	s, err := Open(context.Background(), config.Config{StorageDriver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
}

func TestRedisIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, config.Config{StorageDriver: "redis", RedisAddr: addr, StorageNamespace: "test-" + t.Name()})
	require.NoError(t, err)
	defer s.Close()
	exercise(t, s)
}

func TestPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, config.Config{StorageDriver: "postgres", PostgresDSN: dsn, StorageNamespace: "test-" + t.Name()})
	require.NoError(t, err)
	defer s.Close()
	exercise(t, s)
}
