package service

import (
	"context"
	"errors"

	"delivery-client/internal/features/catalog/domain"
	"delivery-client/internal/features/catalog/ports"
)

// ErrProductNotFound is returned when a product is not in the current catalog.
var ErrProductNotFound = errors.New("product not found")

// CatalogService exposes the menu. Every call fetches fresh data: the
// catalog is never cached client-side.
type CatalogService struct {
	provider ports.CatalogProvider
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(provider ports.CatalogProvider) *CatalogService {
	return &CatalogService{provider: provider}
}

// Products lists the current products.
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	return s.provider.ListProducts(ctx)
}

// Categories lists the current categories.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.provider.ListCategories(ctx)
}

// FindProduct looks a product up by ID in a freshly fetched catalog.
func (s *CatalogService) FindProduct(ctx context.Context, id int64) (domain.Product, error) {
	products, err := s.provider.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	p, ok := domain.Index(products)[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}
