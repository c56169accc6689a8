package domain

import (
	"encoding/json"
	"strings"

	"delivery-client/internal/core/money"

	"github.com/shopspring/decimal"
)

// DiscountKind is how a coupon's Value is interpreted.
type DiscountKind string

const (
	// DiscountPercentage takes Value percentage points off the subtotal.
	DiscountPercentage DiscountKind = "PERCENTAGE"
	// DiscountFixed takes Value cents off the subtotal.
	DiscountFixed DiscountKind = "FIXED"
)

// Coupon is issued and owned by the remote service.
type Coupon struct {
	ID   int64        `json:"id"`
	Code string       `json:"code"`
	Kind DiscountKind `json:"type"`
	// Value is percentage points or cents depending on Kind.
	Value decimal.Decimal `json:"value"`
	// MinOrderValue is the minimum subtotal in cents, when set.
	MinOrderValue *money.Cents `json:"min_order_value,omitempty"`
	Description   string       `json:"description,omitempty"`

	// Listing-only display fields.
	DiscountDisplay string          `json:"discount_display,omitempty"`
	MinOrderDisplay json.RawMessage `json:"min_order_display,omitempty"`
	UsageStatus     string          `json:"usage_status,omitempty"`
}

// NormalizeCode returns the canonical (uppercase, trimmed) form of a code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LocalDiscount computes the discount when the server did not send one.
// FIXED is not capped here: totals are clamped at display time.
func (c Coupon) LocalDiscount(subtotal money.Cents) money.Cents {
	switch DiscountKind(strings.ToUpper(string(c.Kind))) {
	case DiscountPercentage:
		return money.Percentage(subtotal, c.Value)
	default:
		return money.Cents(c.Value.Round(0).IntPart())
	}
}

// Validation is the server's answer to validate_coupon.
type Validation struct {
	Valid    bool         `json:"valid"`
	Coupon   *Coupon      `json:"coupon,omitempty"`
	Discount *money.Cents `json:"discount,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// Applied is the coupon currently applied to checkout. The zero value means
// nothing is applied.
type Applied struct {
	Coupon   *Coupon     `json:"coupon"`
	Discount money.Cents `json:"discount"`
}

// Code returns the applied code or "".
func (a Applied) Code() string {
	if a.Coupon == nil {
		return ""
	}
	return a.Coupon.Code
}

// MessageKind tells the UI how to style a message.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Result is the outcome of a validation attempt: the new applied state and
// the message to show.
type Result struct {
	Applied     Applied     `json:"applied"`
	MessageKind MessageKind `json:"message_type,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// FinalTotal is max(0, subtotal - discount).
func FinalTotal(subtotal, discount money.Cents) money.Cents {
	return (subtotal - discount).NonNegative()
}
