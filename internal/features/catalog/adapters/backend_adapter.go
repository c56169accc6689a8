package adapters

import (
	"context"
	"fmt"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/features/catalog/domain"
)

// BackendCatalog implements ports.CatalogProvider over the remote API.
type BackendCatalog struct {
	client *backend.Client
}

// NewBackendCatalog creates a new BackendCatalog.
func NewBackendCatalog(client *backend.Client) *BackendCatalog {
	return &BackendCatalog{client: client}
}

// ListProducts fetches every product currently offered.
func (a *BackendCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products backend.List[domain.Product]
	if err := a.client.Get(ctx, backend.ActionListProducts, nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListCategories fetches the menu categories.
func (a *BackendCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories backend.List[domain.Category]
	if err := a.client.Get(ctx, backend.ActionListCategories, nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
