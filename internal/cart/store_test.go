package cart

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/ariefcatur/storefront-client/internal/storage"
	"github.com/ariefcatur/storefront-client/internal/storage/storagetest"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, price string) shop.Product {
	return shop.Product{ID: id, Name: "P" + decimal.NewFromInt(id).String(), Price: decimal.RequireFromString(price)}
}

func restored(t *testing.T, st storage.Storage) *Store {
	t.Helper()
	s := NewStore(st)
	require.NoError(t, s.Restore(context.Background()))
	return s
}

func TestDistinctAddsSumQuantities(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		s := restored(t, storage.NewMemory())
		n := rng.Intn(10) + 1
		want := 0
		for i := 0; i < n; i++ {
			q := rng.Intn(5) + 1
			want += q
			require.NoError(t, s.AddItem(context.Background(), product(int64(i+1), "1.00"), q))
		}
		assert.Equal(t, want, s.ItemCount())
		assert.Equal(t, n, s.Len())
	}
}

func TestSameProductMergesIntoOneLine(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		s := restored(t, storage.NewMemory())
		p := product(9, "3.25")
		want := 0
		for i := rng.Intn(8) + 1; i > 0; i-- {
			q := rng.Intn(4) + 1
			want += q
			require.NoError(t, s.AddItem(context.Background(), p, q))
		}
		items := s.Items()
		require.Len(t, items, 1)
		assert.Equal(t, want, items[0].Quantity)
	}
}

func TestAddDefaultsToOne(t *testing.T) {
	s := restored(t, storage.NewMemory())
	require.NoError(t, s.Add(context.Background(), product(1, "2")))
	require.NoError(t, s.Add(context.Background(), product(1, "2")))
	assert.Equal(t, 2, s.ItemCount())
}

func TestAddRejectsNonPositive(t *testing.T) {
	st := storagetest.NewFaulty()
	s := restored(t, st)
	assert.ErrorIs(t, s.AddItem(context.Background(), product(1, "2"), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.AddItem(context.Background(), product(1, "2"), -3), ErrInvalidQuantity)
	assert.Zero(t, s.Len())
	assert.Zero(t, st.Sets())
}

func TestPriceSnapshotKeptOnLaterAdds(t *testing.T) {
	s := restored(t, storage.NewMemory())
	require.NoError(t, s.Add(context.Background(), product(1, "10.00")))
	require.NoError(t, s.Add(context.Background(), product(1, "99.00")))
	assert.Equal(t, "10", s.Items()[0].Price.String())
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	ctx := context.Background()
	for _, q := range []int{0, -1} {
		s := restored(t, storage.NewMemory())
		require.NoError(t, s.AddItem(ctx, product(1, "1"), 2))
		require.NoError(t, s.AddItem(ctx, product(2, "1"), 1))

		require.NoError(t, s.UpdateQuantity(ctx, 1, q))
		items := s.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(2), items[0].ProductID)

		before := s.Items()
		require.NoError(t, s.RemoveItem(ctx, 1))
		assert.Equal(t, before, s.Items())
	}
}

func TestUpdateQuantitySetsExactly(t *testing.T) {
	ctx := context.Background()
	s := restored(t, storage.NewMemory())
	require.NoError(t, s.AddItem(ctx, product(1, "1"), 2))
	require.NoError(t, s.UpdateQuantity(ctx, 1, 7))
	assert.Equal(t, 7, s.ItemCount())

	require.NoError(t, s.UpdateQuantity(ctx, 42, 3))
	assert.Equal(t, 1, s.Len(), "unknown id is a no-op")
}

func TestTotal(t *testing.T) {
	ctx := context.Background()
	s := restored(t, storage.NewMemory())
	assert.True(t, s.Total().IsZero())

	require.NoError(t, s.AddItem(ctx, product(1, "10.00"), 2))
	require.NoError(t, s.AddItem(ctx, product(2, "5.50"), 1))
	assert.True(t, decimal.RequireFromString("25.50").Equal(s.Total()), s.Total().String())
}

func TestClearThenRestoreIsEmpty(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	s := restored(t, st)
	require.NoError(t, s.AddItem(ctx, product(1, "10.00"), 2))
	require.NoError(t, s.Clear(ctx))

	reloaded := restored(t, st)
	assert.Zero(t, reloaded.Len())
	assert.Zero(t, reloaded.ItemCount())
}

func TestWriteThroughSurvivesReload(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	s := restored(t, st)
	require.NoError(t, s.AddItem(ctx, product(3, "4.99"), 2))
	require.NoError(t, s.AddItem(ctx, product(1, "1.25"), 1))

	reloaded := restored(t, st)
	assert.Equal(t, s.Items(), reloaded.Items())
	assert.Equal(t, []shop.ItemQty{{ProductID: 3, Quantity: 2}, {ProductID: 1, Quantity: 1}}, reloaded.CheckoutItems())
}

func TestFailedWriteLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	st := storagetest.NewFaulty()
	s := restored(t, st)
	require.NoError(t, s.AddItem(ctx, product(1, "2.5"), 1))
	before := s.Items()

	st.FailSet(true)
	assert.ErrorIs(t, s.AddItem(ctx, product(1, "2.5"), 5), storagetest.ErrInjected)
	assert.ErrorIs(t, s.AddItem(ctx, product(2, "2.5"), 1), storagetest.ErrInjected)
	assert.ErrorIs(t, s.UpdateQuantity(ctx, 1, 9), storagetest.ErrInjected)
	assert.ErrorIs(t, s.RemoveItem(ctx, 1), storagetest.ErrInjected)
	assert.ErrorIs(t, s.Clear(ctx), storagetest.ErrInjected)
	assert.Equal(t, before, s.Items())

	st.FailSet(false)
	assert.Equal(t, before, restored(t, st).Items())
}

func TestRestoreTolerance(t *testing.T) {
	ctx := context.Background()

	st := storage.NewMemory()
	require.NoError(t, st.Set(ctx, storage.KeyCart, `garbage`))
	assert.Zero(t, restored(t, st).Len())

	st = storage.NewMemory()
	require.NoError(t, st.Set(ctx, storage.KeyCart,
		`[{"product_id":1,"name":"A","price":"1","quantity":2},{"product_id":1,"name":"A","price":"1","quantity":3},{"product_id":2,"name":"B","price":"1","quantity":0}]`))
	s := restored(t, st)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 5, s.ItemCount())

	f := storagetest.NewFaulty()
	f.FailGet(true)
	assert.ErrorIs(t, NewStore(f).Restore(ctx), storagetest.ErrInjected)
}

func TestMutationsWaitForRestore(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	saved := `[{"product_id":1,"name":"P1","price":"1","quantity":3},{"product_id":2,"name":"P2","price":"1","quantity":1}]`
	require.NoError(t, st.Set(ctx, storage.KeyCart, saved))

	s := NewStore(st)
	assert.False(t, s.Restored())
	assert.ErrorIs(t, s.AddItem(ctx, product(3, "1"), 1), ErrNotRestored)
	assert.ErrorIs(t, s.UpdateQuantity(ctx, 1, 9), ErrNotRestored)
	assert.ErrorIs(t, s.RemoveItem(ctx, 1), ErrNotRestored)
	assert.ErrorIs(t, s.Clear(ctx), ErrNotRestored)

	raw, _, err := st.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, saved, raw)

	require.NoError(t, s.Restore(ctx))
	assert.True(t, s.Restored())
	require.NoError(t, s.AddItem(ctx, product(3, "1"), 1))
	assert.Equal(t, 5, s.ItemCount())
	assert.Equal(t, 3, s.Len())
}

func TestFailedRestoreStaysUnrestored(t *testing.T) {
	ctx := context.Background()
	f := storagetest.NewFaulty()
	require.NoError(t, f.Set(ctx, storage.KeyCart, `[{"product_id":1,"name":"P1","price":"1","quantity":2}]`))
	s := NewStore(f)

	f.FailGet(true)
	require.Error(t, s.Restore(ctx))
	assert.ErrorIs(t, s.Add(ctx, product(2, "1")), ErrNotRestored)

	f.FailGet(false)
	require.NoError(t, s.Restore(ctx))
	require.NoError(t, s.Add(ctx, product(2, "1")))
	assert.Equal(t, 3, s.ItemCount())
}

func TestRestoreDiscardsUnreadableRecord(t *testing.T) {
	ctx := context.Background()
	st := storagetest.NewFaulty()
	require.NoError(t, st.Set(ctx, storage.KeyCart, `{not json`))

	log, hook := logtest.NewNullLogger()
	s := NewStore(st)
	s.Logger = log
	require.NoError(t, s.Restore(ctx))
	assert.Zero(t, s.Len())

	_, found, err := st.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.False(t, found)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "discarding unreadable cart", hook.LastEntry().Message)

	require.NoError(t, st.Set(ctx, storage.KeyCart, `{not json`))
	st.FailRemove(true)
	again := NewStore(st)
	assert.ErrorIs(t, again.Restore(ctx), storagetest.ErrInjected)
	assert.False(t, again.Restored())
}

func TestItemsIsACopy(t *testing.T) {
	s := restored(t, storage.NewMemory())
	require.NoError(t, s.Add(context.Background(), product(1, "1")))
	items := s.Items()
	items[0].Quantity = 100
	assert.Equal(t, 1, s.ItemCount())
}

func TestConcurrentAdds(t *testing.T) {
	s := restored(t, storage.NewMemory())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Add(context.Background(), product(1, "1"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, s.ItemCount())
	assert.Equal(t, 1, s.Len())
}
