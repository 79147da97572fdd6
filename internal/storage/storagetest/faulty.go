// Package storagetest has storage doubles for store tests.
package storagetest

import (
	"context"
	"errors"
	"sync"

	"github.com/ariefcatur/storefront-client/internal/storage"
)

var ErrInjected = errors.New("injected storage failure")

// Faulty wraps a memory store and fails the operations that are switched on.
type Faulty struct {
	*storage.Memory

	mu      sync.Mutex
	failGet bool
	failSet bool
	failRm  bool
	sets    int
}

func NewFaulty() *Faulty { return &Faulty{Memory: storage.NewMemory()} }

func (f *Faulty) FailGet(on bool) { f.mu.Lock(); f.failGet = on; f.mu.Unlock() }
func (f *Faulty) FailSet(on bool) { f.mu.Lock(); f.failSet = on; f.mu.Unlock() }
func (f *Faulty) FailRemove(on bool) { f.mu.Lock(); f.failRm = on; f.mu.Unlock() }

// Sets counts successful writes.
func (f *Faulty) Sets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

func (f *Faulty) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return "", false, ErrInjected
	}
	return f.Memory.Get(ctx, key)
}

func (f *Faulty) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return ErrInjected
	}
	if err := f.Memory.Set(ctx, key, value); err != nil {
		return err
	}
	f.sets++
	return nil
}

func (f *Faulty) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failRm
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Memory.Remove(ctx, key)
}
