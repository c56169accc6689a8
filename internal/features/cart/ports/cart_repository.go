package ports

import (
	"context"

	"delivery-client/internal/features/cart/domain"
)

// CartRepository persists the full item list.
type CartRepository interface {
	// Load returns the persisted items; an empty store yields nil, nil.
	Load(ctx context.Context) ([]domain.Item, error)
	// Save replaces the persisted items.
	Save(ctx context.Context, items []domain.Item) error
}
