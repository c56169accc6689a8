package ports

import (
	"context"

	"delivery-client/internal/features/orders/domain"
)

// OrderHistory lists the customer's past orders.
type OrderHistory interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}
