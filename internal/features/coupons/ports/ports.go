package ports

import (
	"context"

	"delivery-client/internal/core/money"
	"delivery-client/internal/features/coupons/domain"
)

// CouponProvider talks to the remote coupon endpoints.
type CouponProvider interface {
	Validate(ctx context.Context, code string, subtotal money.Cents) (*domain.Validation, error)
	List(ctx context.Context) ([]domain.Coupon, error)
}

// HandoffRepository carries a code chosen on the promotions listing into the
// next checkout.
type HandoffRepository interface {
	Put(ctx context.Context, code string) error
	// Take returns the stored code and removes it. Empty means none.
	Take(ctx context.Context) (string, error)
}
