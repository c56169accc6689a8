package domain

import "delivery-client/internal/core/money"

// Product is a catalog entry as fetched from the backend. Cart items keep a
// copy, so later catalog price changes never reprice an existing cart line.
type Product struct {
	// ID is the backend product identifier.
	ID int64 `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Description is the long description.
	Description string `json:"description"`
	// Price is the unit price in cents.
	Price money.Cents `json:"price"`
	// CategoryID references the product category, when set.
	CategoryID *int64 `json:"category_id,omitempty"`
	// CategoryName is the denormalized category name.
	CategoryName string `json:"category_name,omitempty"`
	// ImageURL points to the product picture.
	ImageURL string `json:"image_url,omitempty"`
}

// Category groups products in the menu.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count,omitempty"`
}

// Index maps products by ID.
func Index(products []Product) map[int64]Product {
	idx := make(map[int64]Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
