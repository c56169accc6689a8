package adapters

import (
	"context"
	"testing"

	"delivery-client/internal/core/cache"
	catalog "delivery-client/internal/features/catalog/domain"
	"delivery-client/internal/features/cart/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCartRepository_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	repo := NewCacheCartRepository(c)
	ctx := context.Background()

	items, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	saved := []domain.Item{{ID: "l1", Product: catalog.Product{ID: 1, Name: "X-Burger", Price: 2500}, Quantity: 2, Notes: "sem cebola"}}
	require.NoError(t, repo.Save(ctx, saved))

	items, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, items)
}

func TestCacheCartRepository_Corrupt(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("delivery:cart_items", "{{{"))

	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	_, err = NewCacheCartRepository(c).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal cart")
}

func TestCacheCartRepository_SaveEmptyWritesArray(t *testing.T) {
	store := cache.NewMemoryAdapter()
	repo := NewCacheCartRepository(store)

	require.NoError(t, repo.Save(context.Background(), nil))
	raw, err := store.Get(context.Background(), cartCacheKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
