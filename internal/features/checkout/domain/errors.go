package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("checkout requires an authenticated session")
	ErrEmptyCart        = errors.New("cart is empty")
)

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RejectionError is a failed order creation. Cart and coupon are untouched.
type RejectionError struct {
	Message string
	Err     error
}

func (e *RejectionError) Error() string { return e.Message }
func (e *RejectionError) Unwrap() error { return e.Err }
