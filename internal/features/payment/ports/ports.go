package ports

import (
	"context"

	cart "delivery-client/internal/features/cart/domain"
	"delivery-client/internal/features/payment/domain"
)

// StatusChecker asks the remote service for an order's payment status.
type StatusChecker interface {
	CheckStatus(ctx context.Context, orderID string) (domain.Check, error)
}

// CartClearer empties the working cart once payment settles.
type CartClearer interface {
	Clear(ctx context.Context) cart.Totals
}
