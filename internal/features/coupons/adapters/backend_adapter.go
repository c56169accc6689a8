package adapters

import (
	"context"
	"fmt"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/core/money"
	"delivery-client/internal/features/coupons/domain"
)

// BackendCoupons implements ports.CouponProvider over the remote API.
type BackendCoupons struct {
	client *backend.Client
}

// NewBackendCoupons creates a new BackendCoupons.
func NewBackendCoupons(client *backend.Client) *BackendCoupons {
	return &BackendCoupons{client: client}
}

type validateRequest struct {
	Code       string      `json:"code"`
	OrderTotal money.Cents `json:"order_total"`
}

// Validate asks the server whether code applies to subtotal.
func (a *BackendCoupons) Validate(ctx context.Context, code string, subtotal money.Cents) (*domain.Validation, error) {
	var v domain.Validation
	if err := a.client.Post(ctx, backend.ActionValidateCoupon, validateRequest{Code: code, OrderTotal: subtotal}, &v); err != nil {
		return nil, fmt.Errorf("failed to validate coupon: %w", err)
	}
	return &v, nil
}

// List fetches the published coupons.
func (a *BackendCoupons) List(ctx context.Context) ([]domain.Coupon, error) {
	var coupons backend.List[domain.Coupon]
	if err := a.client.Get(ctx, backend.ActionListCoupons, nil, &coupons); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}
