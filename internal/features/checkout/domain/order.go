package domain

import (
	"errors"
	"strings"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentPIX  PaymentMethod = "PIX"
	PaymentCard PaymentMethod = "CARD"
	PaymentCash PaymentMethod = "CASH"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// ParsePaymentMethod accepts the method case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case PaymentPIX, PaymentCard, PaymentCash:
		return m, nil
	}
	return "", ErrInvalidPaymentMethod
}

// Online reports methods settled through a payment link.
func (m PaymentMethod) Online() bool {
	return m == PaymentPIX || m == PaymentCard
}

// Delivery holds the structured delivery fields of an order.
type Delivery struct {
	Address      string `json:"delivery_address"`
	Number       string `json:"delivery_number"`
	Neighborhood string `json:"delivery_neighborhood"`
	City         string `json:"delivery_city"`
	State        string `json:"delivery_state"`
	Complement   string `json:"delivery_complement"`
}

// OrderLine is one item of an order request.
type OrderLine struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

// CreateOrderRequest is the create_order body.
type CreateOrderRequest struct {
	Items         []OrderLine   `json:"items"`
	Notes         string        `json:"notes"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CouponCode    *string       `json:"coupon_code"`
	Delivery
}

// CreateOrderResponse is the create_order answer.
type CreateOrderResponse struct {
	Success bool       `json:"success"`
	OrderID FlexibleID `json:"order_id"`
	Payment *struct {
		URL    string `json:"url"`
		Status string `json:"status,omitempty"`
	} `json:"payment,omitempty"`
	PaymentLink  string `json:"payment_link,omitempty"`
	Error        string `json:"error,omitempty"`
	PaymentError string `json:"payment_error,omitempty"`
}

// Link returns payment.url, falling back to payment_link.
func (r CreateOrderResponse) Link() string {
	if r.Payment != nil && r.Payment.URL != "" {
		return r.Payment.URL
	}
	return r.PaymentLink
}

// NextStep is where the customer goes after a successful submission.
type NextStep string

const (
	StepPayment NextStep = "payment"
	StepOrders  NextStep = "orders"
)

// Outcome describes a successful submission.
type Outcome struct {
	OrderID       string        `json:"order_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Next          NextStep      `json:"next"`
	PaymentLink   string        `json:"payment_link,omitempty"`
	CartCleared   bool          `json:"cart_cleared"`
	// Degraded is set when an online method came back without a link.
	Degraded bool `json:"degraded,omitempty"`
}
