package cart

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/kv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// failingStore rejects every operation, standing in for unavailable durable
// storage.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("storage down")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("storage down") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("storage down") }

func TestStore_RoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()

	first := NewStore(storage, testLogger())
	first.AddItem(ctx, "c1", 1, "Cheesecake", price("30.00"))
	first.AddItem(ctx, "c1", 2, "Brownie", price("15.00"))
	first.IncrementItem(ctx, "c1", 2)

	// a fresh store over the same storage sees the same lines
	second := NewStore(storage, testLogger())
	got := second.Get(ctx, "c1")

	want := []Line{
		{ProductID: 1, Name: "Cheesecake", UnitPrice: price("30.00"), Quantity: 1},
		{ProductID: 2, Name: "Brownie", UnitPrice: price("15.00"), Quantity: 2},
	}
	if diff := cmp.Diff(want, got.Lines, decimalComparer); diff != "" {
		t.Fatalf("rehydrated lines mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, got.TotalQuantity)
	assert.True(t, got.TotalAmount.Equal(price("60.00")))
}

func TestStore_MalformedStoredCartFailsOpen(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(ctx, storageKeyPrefix+"c1", "{not json"))

	store := NewStore(storage, testLogger())
	snap := store.Get(ctx, "c1")

	assert.Empty(t, snap.Lines)
	assert.Equal(t, 0, snap.TotalQuantity)
}

func TestStore_UnreadableStorageFailsOpen(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingStore{}, testLogger())

	snap := store.AddItem(ctx, "c1", 7, "Tiramisu", price("45.00"))

	// the mutation succeeds even though nothing could be persisted
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, store.ItemQuantity(ctx, "c1", 7))
}

func TestStore_ItemQuantityZeroWhenAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory(), testLogger())

	assert.Equal(t, 0, store.ItemQuantity(ctx, "c1", 42))
}

func TestStore_ClearEmptiesCartAndStorage(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	store := NewStore(storage, testLogger())

	store.AddItem(ctx, "c1", 1, "Flan", price("12.50"))
	snap := store.Clear(ctx, "c1")

	assert.Empty(t, snap.Lines)

	raw, err := storage.Get(ctx, storageKeyPrefix+"c1")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", raw)
}

func TestStore_CartsAreIsolatedByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory(), testLogger())

	store.AddItem(ctx, "a", 1, "Flan", price("12.50"))
	store.AddItem(ctx, "b", 2, "Tarta", price("20.00"))

	assert.Equal(t, 1, store.ItemQuantity(ctx, "a", 1))
	assert.Equal(t, 0, store.ItemQuantity(ctx, "a", 2))
	assert.Equal(t, 1, store.ItemQuantity(ctx, "b", 2))
}

func TestStore_DecrementAtOneRemovesLine(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory(), testLogger())

	store.AddItem(ctx, "c1", 7, "Tiramisu", decimal.NewFromInt(45))
	snap := store.DecrementItem(ctx, "c1", 7)

	assert.Empty(t, snap.Lines)
	assert.Equal(t, 0, store.ItemQuantity(ctx, "c1", 7))
}
