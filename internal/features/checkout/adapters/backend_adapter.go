package adapters

import (
	"context"
	"fmt"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/features/checkout/domain"
)

// BackendOrders implements ports.OrderCreator and ports.AddressHistory.
type BackendOrders struct {
	client *backend.Client
}

// NewBackendOrders creates a new BackendOrders.
func NewBackendOrders(client *backend.Client) *BackendOrders {
	return &BackendOrders{client: client}
}

// CreateOrder posts req to create_order. A non-2xx answer is returned as
// *backend.HTTPError so the caller can read the server's message.
func (a *BackendOrders) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	var resp domain.CreateOrderResponse
	if err := a.client.Post(ctx, backend.ActionCreateOrder, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &resp, nil
}

// LastAddresses fetches list_last_addresses.
func (a *BackendOrders) LastAddresses(ctx context.Context) ([]domain.LastAddress, error) {
	var entries backend.List[domain.LastAddress]
	if err := a.client.Get(ctx, backend.ActionListLastAddresses, nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to list last addresses: %w", err)
	}
	return entries, nil
}
