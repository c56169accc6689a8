package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"delivery-client/internal/core/money"
)

// ErrMalformedItems is reported when an order's items cannot be decoded.
// The order itself is kept with no items.
var ErrMalformedItems = errors.New("malformed order items")

// StatusKind is the coarse state of a past order.
type StatusKind string

const (
	KindPending   StatusKind = "pending"
	KindPaid      StatusKind = "paid"
	KindCancelled StatusKind = "cancelled"
)

// KindOf classifies a normalized status.
func KindOf(status string) StatusKind {
	switch status {
	case "paid", "completed", "approved":
		return KindPaid
	case "cancelled", "expired", "refunded":
		return KindCancelled
	}
	return KindPending
}

// Item is one line of a past order.
type Item struct {
	ProductID int64       `json:"product_id"`
	Name      string      `json:"name"`
	ImageURL  string      `json:"image_url,omitempty"`
	Quantity  int         `json:"quantity"`
	Price     money.Cents `json:"price"`
	Notes     string      `json:"notes,omitempty"`
}

// Billing is the payment record attached to an order.
type Billing struct {
	Status    string `json:"status"`
	BillingID string `json:"billing_id,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Order is a past order as listed by the remote service. Status and Kind
// are derived once, when the order is decoded.
type Order struct {
	ID            int64       `json:"id"`
	Total         money.Cents `json:"total"`
	Discount      money.Cents `json:"discount"`
	PaymentMethod string      `json:"payment_method"`
	CouponCode    string      `json:"coupon_code,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []Item      `json:"items"`
	Billing       *Billing    `json:"billing,omitempty"`

	// Status prefers the billing status over the order's own, lowercased.
	Status string     `json:"status"`
	Kind   StatusKind `json:"kind"`

	// ItemsErr is set when items were present but unreadable.
	ItemsErr error `json:"-"`
}

type wireItem struct {
	Item
	ProductName string `json:"product_name"`
}

type wireOrder struct {
	ID            int64           `json:"id"`
	Total         money.Cents     `json:"total"`
	Discount      money.Cents     `json:"discount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	CouponCode    *string         `json:"coupon_code"`
	Notes         *string         `json:"notes"`
	CreatedAt     string          `json:"created_at"`
	Items         json.RawMessage `json:"items"`
	Billing       *Billing        `json:"billing"`
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON decodes the list_orders shape. Items may be an array or a
// JSON-encoded string of one.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w wireOrder
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*o = Order{
		ID:            w.ID,
		Total:         w.Total,
		Discount:      w.Discount,
		PaymentMethod: w.PaymentMethod,
		Billing:       w.Billing,
		CreatedAt:     parseTime(w.CreatedAt),
	}
	if w.CouponCode != nil {
		o.CouponCode = *w.CouponCode
	}
	if w.Notes != nil {
		o.Notes = *w.Notes
	}

	o.Items, o.ItemsErr = decodeItems(w.Items)
	o.Status = effectiveStatus(w.Status, w.Billing)
	o.Kind = KindOf(o.Status)
	return nil
}

func effectiveStatus(own string, billing *Billing) string {
	if billing != nil && billing.Status != "" {
		return strings.ToLower(billing.Status)
	}
	if own != "" {
		return strings.ToLower(own)
	}
	return string(KindPending)
}

func decodeItems(raw json.RawMessage) ([]Item, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return []Item{}, nil
	}

	if strings.HasPrefix(s, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return []Item{}, fmt.Errorf("%w: %v", ErrMalformedItems, err)
		}
		if strings.TrimSpace(inner) == "" {
			return []Item{}, nil
		}
		raw = json.RawMessage(inner)
	}

	var wire []wireItem
	if err := json.Unmarshal(raw, &wire); err != nil {
		return []Item{}, fmt.Errorf("%w: %v", ErrMalformedItems, err)
	}

	items := make([]Item, 0, len(wire))
	for _, w := range wire {
		it := w.Item
		if it.Name == "" {
			it.Name = w.ProductName
		}
		items = append(items, it)
	}
	return items, nil
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FinalPrice is max(0, total - discount).
func (o Order) FinalPrice() money.Cents {
	return (o.Total - o.Discount).NonNegative()
}

// deliveredAfter is how long after creation a paid order counts as delivered.
const deliveredAfter = 3 * time.Hour

// Delivered reports a paid order placed more than three hours before now.
func (o Order) Delivered(now time.Time) bool {
	return o.Kind == KindPaid && !o.CreatedAt.IsZero() && now.Sub(o.CreatedAt) > deliveredAfter
}

// Progress is the delivery line shown with the order.
func (o Order) Progress(now time.Time) string {
	switch {
	case o.Kind == KindCancelled:
		return "Pedido cancelado."
	case o.Delivered(now):
		return "Pedido entregue com sucesso."
	case o.Kind != KindPaid:
		return "Aguardando confirmação de pagamento."
	}

	from := o.CreatedAt.Add(30 * time.Minute)
	to := o.CreatedAt.Add(60 * time.Minute)
	return fmt.Sprintf("Previsão: %s - %s", from.Format("15:04"), to.Format("15:04"))
}
