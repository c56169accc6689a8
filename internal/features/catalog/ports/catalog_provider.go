package ports

import (
	"context"

	"delivery-client/internal/features/catalog/domain"
)

// CatalogProvider fetches the current menu from the remote service.
// This is a Secondary Port (Driven Port).
type CatalogProvider interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
