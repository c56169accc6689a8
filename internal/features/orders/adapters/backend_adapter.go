package adapters

import (
	"context"
	"fmt"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/features/orders/domain"
)

// BackendOrderHistory implements ports.OrderHistory over the remote API.
type BackendOrderHistory struct {
	client *backend.Client
}

// NewBackendOrderHistory creates a new BackendOrderHistory.
func NewBackendOrderHistory(client *backend.Client) *BackendOrderHistory {
	return &BackendOrderHistory{client: client}
}

// ListOrders fetches list_orders.
func (a *BackendOrderHistory) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders backend.List[domain.Order]
	if err := a.client.Get(ctx, backend.ActionListOrders, nil, &orders); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
