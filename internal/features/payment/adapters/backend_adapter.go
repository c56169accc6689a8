package adapters

import (
	"context"
	"fmt"
	"net/url"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/features/payment/domain"
)

// BackendStatusChecker implements ports.StatusChecker over the remote API.
type BackendStatusChecker struct {
	client *backend.Client
}

// NewBackendStatusChecker creates a new BackendStatusChecker.
func NewBackendStatusChecker(client *backend.Client) *BackendStatusChecker {
	return &BackendStatusChecker{client: client}
}

// CheckStatus fetches the current status for orderID.
func (a *BackendStatusChecker) CheckStatus(ctx context.Context, orderID string) (domain.Check, error) {
	var check domain.Check
	query := url.Values{"order_id": []string{orderID}}
	if err := a.client.Get(ctx, backend.ActionCheckPaymentStatus, query, &check); err != nil {
		return domain.Check{}, fmt.Errorf("failed to check payment status for order %s: %w", orderID, err)
	}
	return check, nil
}
