package domain

import (
	"errors"

	"delivery-client/internal/core/money"
	catalog "delivery-client/internal/features/catalog/domain"
)

// ErrInvalidQuantity is returned for quantities below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Item is one cart line. ID is generated locally and is unrelated to the
// product ID: the same product may sit on several lines with different
// notes or quantities.
type Item struct {
	// ID is the locally generated line identifier.
	ID string `json:"temp_id"`
	// Product is the catalog snapshot taken when the line was added.
	Product catalog.Product `json:"product"`
	// Quantity is always >= 1.
	Quantity int `json:"quantity"`
	// Notes is free text for the kitchen, possibly empty.
	Notes string `json:"notes"`
}

// Subtotal is price x quantity for the line.
func (i Item) Subtotal() money.Cents {
	return i.Product.Price.Times(i.Quantity)
}

// Totals are the values derived from the item list.
type Totals struct {
	// Total is the sum of price x quantity over all lines.
	Total money.Cents `json:"cart_total"`
	// Count is the sum of quantities.
	Count int `json:"cart_count"`
}

// Compute derives Totals from items.
func Compute(items []Item) Totals {
	var t Totals
	for _, it := range items {
		t.Total += it.Subtotal()
		t.Count += it.Quantity
	}
	return t
}

// Cart is a read-only snapshot of the store.
type Cart struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}
