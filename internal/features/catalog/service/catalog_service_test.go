package service

import (
	"context"
	"errors"
	"testing"

	"delivery-client/internal/features/catalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	products []domain.Product
	err      error
}

func (f *fakeProvider) ListProducts(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeProvider) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Bebidas"}}, f.err
}

func TestCatalogService_FindProduct(t *testing.T) {
	svc := NewCatalogService(&fakeProvider{products: []domain.Product{{ID: 7, Name: "Pizza", Price: 4500}}})

	p, err := svc.FindProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Pizza", p.Name)

	_, err = svc.FindProduct(context.Background(), 8)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewCatalogService(&fakeProvider{err: boom})

	_, err := svc.FindProduct(context.Background(), 1)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Products(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCatalogService_Categories(t *testing.T) {
	svc := NewCatalogService(&fakeProvider{})
	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}
