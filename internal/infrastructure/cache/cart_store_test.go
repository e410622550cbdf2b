package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCartStore(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	userID := uuid.New()

	c, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, userID, c.UserID)

	p := uuid.New()
	require.NoError(t, c.Add(p, 2))
	require.NoError(t, store.Save(ctx, c, time.Hour))

	// mutating the caller's copy does not leak into the store
	c.Items[0].Quantity = 99

	loaded, err := store.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)

	require.NoError(t, store.Delete(ctx, userID))
	loaded, _ = store.Get(ctx, userID)
	assert.True(t, loaded.IsEmpty())
}

func TestInMemoryCartStore_EmptySaveDeletes(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	userID := uuid.New()

	productID := uuid.New()
	c, _ := store.Get(ctx, userID)
	require.NoError(t, c.Add(productID, 1))
	require.NoError(t, store.Save(ctx, c, time.Hour))

	c.Remove(productID)
	require.NoError(t, store.Save(ctx, c, time.Hour))
	assert.Empty(t, store.carts)
}

func TestInMemoryCartStore_Expiry(t *testing.T) {
	store := NewInMemoryCartStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()
	userID := uuid.New()

	c, _ := store.Get(ctx, userID)
	require.NoError(t, c.Add(uuid.New(), 1))
	require.NoError(t, store.Save(ctx, c, time.Minute))

	now = now.Add(time.Hour)
	loaded, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
