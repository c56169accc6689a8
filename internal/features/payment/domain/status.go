package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is a case-normalized payment status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusRefunded  Status = "refunded"
)

// ParseStatus lowercases and trims raw. Unknown values are kept as-is so
// they can be shown, but they are never terminal.
func ParseStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Accepting reports the settled states.
func (s Status) Accepting() bool {
	return s == StatusPaid || s == StatusCompleted
}

// Rejecting reports the terminal failure states.
func (s Status) Rejecting() bool {
	switch s {
	case StatusCancelled, StatusExpired, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected.
func (s Status) Terminal() bool {
	return s.Accepting() || s.Rejecting()
}

// Check is the answer of check_payment_status.
type Check struct {
	Status  string          `json:"status"`
	Billing json.RawMessage `json:"billing,omitempty"`
}

// Snapshot is the observable state of one tracker.
type Snapshot struct {
	OrderID       string     `json:"order_id"`
	Status        Status     `json:"status"`
	RawStatus     string     `json:"raw_status,omitempty"`
	Polling       bool       `json:"polling"`
	PaymentLink   string     `json:"payment_link,omitempty"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}
