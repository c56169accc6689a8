package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"delivery-client/internal/core/cache"
	"delivery-client/internal/features/cart/domain"
)

const cartCacheKey = "cart_items"

// CacheCartRepository implements ports.CartRepository on the local store.
type CacheCartRepository struct {
	cache cache.Cache
}

// NewCacheCartRepository creates a new CacheCartRepository.
func NewCacheCartRepository(c cache.Cache) *CacheCartRepository {
	return &CacheCartRepository{cache: c}
}

// Load reads the serialized item list.
func (r *CacheCartRepository) Load(ctx context.Context) ([]domain.Item, error) {
	data, err := r.cache.Get(ctx, cartCacheKey)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart from cache: %w", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return items, nil
}

// Save writes the item list without expiration.
func (r *CacheCartRepository) Save(ctx context.Context, items []domain.Item) error {
	if items == nil {
		items = []domain.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := r.cache.Set(ctx, cartCacheKey, data, 0); err != nil {
		return fmt.Errorf("failed to save cart to cache: %w", err)
	}
	return nil
}
