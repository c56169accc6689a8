package ports

import (
	"context"

	"delivery-client/internal/features/checkout/domain"
)

// OrderCreator submits orders to the remote service.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error)
}

// AddressHistory lists the customer's most recent delivery addresses.
type AddressHistory interface {
	LastAddresses(ctx context.Context) ([]domain.LastAddress, error)
}

// PostalCodeLookup resolves an 8-digit CEP.
type PostalCodeLookup interface {
	Lookup(ctx context.Context, cep string) (domain.PostalAddress, error)
}

// LinkOpener presents a payment link to the customer.
type LinkOpener interface {
	Open(ctx context.Context, link string) error
}
