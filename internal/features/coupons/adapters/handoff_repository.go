package adapters

import (
	"context"
	"errors"
	"fmt"

	"delivery-client/internal/core/cache"
)

const handoffKey = "selected_coupon"

// CacheHandoffRepository implements ports.HandoffRepository on the local store.
type CacheHandoffRepository struct {
	cache cache.Cache
}

// NewCacheHandoffRepository creates a new CacheHandoffRepository.
func NewCacheHandoffRepository(c cache.Cache) *CacheHandoffRepository {
	return &CacheHandoffRepository{cache: c}
}

// Put stores code for the next checkout.
func (r *CacheHandoffRepository) Put(ctx context.Context, code string) error {
	if err := r.cache.Set(ctx, handoffKey, []byte(code), 0); err != nil {
		return fmt.Errorf("failed to store selected coupon: %w", err)
	}
	return nil
}

// Take reads and removes the stored code.
func (r *CacheHandoffRepository) Take(ctx context.Context) (string, error) {
	raw, err := r.cache.Get(ctx, handoffKey)
	if errors.Is(err, cache.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read selected coupon: %w", err)
	}
	if err := r.cache.Delete(ctx, handoffKey); err != nil {
		return "", fmt.Errorf("failed to consume selected coupon: %w", err)
	}
	return string(raw), nil
}
