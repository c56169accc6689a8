package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"delivery-client/internal/core/logger"
	"delivery-client/internal/features/payment/ports"

	"go.uber.org/zap"
)

// DefaultInterval is the recurring check period.
const DefaultInterval = 5 * time.Second

// Registry owns at most one Tracker per order id.
type Registry struct {
	checker  ports.StatusChecker
	cart     ports.CartClearer
	interval time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewRegistry creates a Registry. A non-positive interval uses DefaultInterval.
func NewRegistry(checker ports.StatusChecker, cart ports.CartClearer, interval time.Duration) *Registry {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Registry{
		checker:  checker,
		cart:     cart,
		interval: interval,
		log:      logger.Named("payment"),
		trackers: make(map[string]*Tracker),
	}
}

// Track starts tracking orderID, or returns the tracker already attached
// to it. The first check fires immediately.
func (r *Registry) Track(ctx context.Context, orderID, link string) *Tracker {
	orderID, link = strings.Clone(orderID), strings.Clone(link)

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.trackers[orderID]; ok {
		return t
	}

	t := newTracker(ctx, orderID, link, r.checker, r.cart, r.interval, r.log)
	r.trackers[orderID] = t
	r.log.Info("Tracking payment", zap.String("order_id", orderID), zap.Duration("interval", r.interval))
	t.start()
	return t
}

// Get returns the tracker for orderID.
func (r *Registry) Get(orderID string) (*Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[orderID]
	return t, ok
}

// Release stops and forgets the tracker for orderID. It reports whether one
// existed.
func (r *Registry) Release(orderID string) bool {
	r.mu.Lock()
	t, ok := r.trackers[orderID]
	delete(r.trackers, orderID)
	r.mu.Unlock()

	if ok {
		t.Stop()
	}
	return ok
}

// Shutdown stops every tracker and waits for their goroutines until ctx ends.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	trackers := make([]*Tracker, 0, len(r.trackers))
	for id, t := range r.trackers {
		trackers = append(trackers, t)
		delete(r.trackers, id)
	}
	r.mu.Unlock()

	for _, t := range trackers {
		t.Stop()
	}
	for _, t := range trackers {
		select {
		case <-t.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
