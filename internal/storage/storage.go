// Package storage holds the client-local records the stores persist to: a
// small set of text values under fixed keys.
package storage

import (
	"context"
	"errors"
)

// Fixed record names.
const (
	KeySession = "session"
	KeyCart    = "cart"
)

var ErrClosed = errors.New("storage closed")

// Storage is a string-keyed text store. Values are written and read back
// verbatim; found is false when the key has never been set or was removed.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
