// Package cart keeps the local shopping cart: an insertion-ordered list of
// line items, at most one per product, persisted on every change.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/ariefcatur/storefront-client/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrNotRestored rejects mutations until Restore has succeeded, so a
	// write cannot replace a persisted cart that was never read.
	ErrNotRestored = errors.New("cart not restored yet")
)

// Store is safe for concurrent use. Each mutation builds the new item list,
// writes it, and only then swaps it in, so a failed write changes nothing.
type Store struct {
	st storage.Storage
	// Logger reports discarded records; nil logs nothing.
	Logger logrus.FieldLogger

	mu       sync.RWMutex
	restored bool
	items    []shop.LineItem
}

func NewStore(st storage.Storage) *Store {
	return &Store{st: st}
}

// Restore loads the persisted cart. A missing record starts an empty cart;
// an undecodable one is logged, removed, and also starts empty. A read or
// remove failure leaves the store unrestored.
func (s *Store) Restore(ctx context.Context) error {
	raw, found, err := s.st.Get(ctx, storage.KeyCart)
	if err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	var items []shop.LineItem
	if found {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("bytes", len(raw)).Warn("discarding unreadable cart")
			}
			if rmErr := s.st.Remove(ctx, storage.KeyCart); rmErr != nil {
				return fmt.Errorf("discard corrupt cart: %w", rmErr)
			}
			items = nil
		}
	}
	s.mu.Lock()
	s.items = normalize(items)
	s.restored = true
	s.mu.Unlock()
	return nil
}

// Restored reports whether Restore has succeeded at least once.
func (s *Store) Restored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restored
}

// normalize merges duplicate product ids and drops non-positive quantities
// so a hand-edited record still satisfies the one-line-per-product rule.
func normalize(in []shop.LineItem) []shop.LineItem {
	out := make([]shop.LineItem, 0, len(in))
	at := make(map[int64]int, len(in))
	for _, it := range in {
		if it.Quantity <= 0 {
			continue
		}
		if i, ok := at[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		at[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

// Add is AddItem with quantity 1.
func (s *Store) Add(ctx context.Context, p shop.Product) error {
	return s.AddItem(ctx, p, 1)
}

// AddItem increments the product's line by quantity, or appends a new line
// capturing the product's current name and price.
func (s *Store) AddItem(ctx context.Context, p shop.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.mutate(ctx, func(cur []shop.LineItem) []shop.LineItem {
		next := clone(cur)
		for i := range next {
			if next[i].ProductID == p.ID {
				next[i].Quantity += quantity
				return next
			}
		}
		return append(next, shop.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  quantity,
		})
	})
}

// RemoveItem drops the product's line; absent ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(cur []shop.LineItem) []shop.LineItem {
		next := make([]shop.LineItem, 0, len(cur))
		for _, it := range cur {
			if it.ProductID != productID {
				next = append(next, it)
			}
		}
		return next
	})
}

// UpdateQuantity sets the line's quantity exactly; quantity <= 0 removes it.
// A positive quantity for a product not in the cart does nothing.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	return s.mutate(ctx, func(cur []shop.LineItem) []shop.LineItem {
		next := clone(cur)
		for i := range next {
			if next[i].ProductID == productID {
				next[i].Quantity = quantity
			}
		}
		return next
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]shop.LineItem) []shop.LineItem {
		return []shop.LineItem{}
	})
}

func (s *Store) mutate(ctx context.Context, f func([]shop.LineItem) []shop.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.restored {
		return ErrNotRestored
	}
	next := f(s.items)
	b, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.st.Set(ctx, storage.KeyCart, string(b)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	s.items = next
	return nil
}

func clone(in []shop.LineItem) []shop.LineItem {
	out := make([]shop.LineItem, len(in))
	copy(out, in)
	return out
}

// Items returns a copy in insertion order.
func (s *Store) Items() []shop.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Len is the number of distinct products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Total is the sum of price times quantity, zero for an empty cart.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, it := range s.items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// CheckoutItems is the cart as sent to checkout.
func (s *Store) CheckoutItems() []shop.ItemQty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shop.ItemQty, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, shop.ItemQty{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
