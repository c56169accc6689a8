package service

import (
	"context"
	"sync"
	"time"

	"delivery-client/internal/core/metrics"
	"delivery-client/internal/features/payment/domain"
	"delivery-client/internal/features/payment/ports"

	"go.uber.org/zap"
)

const (
	triggerPoll   = "poll"
	triggerManual = "manual"
)

// Tracker polls the payment status of one order until a terminal status is
// seen or Stop is called. Once stopped, results of checks still in flight
// are discarded.
type Tracker struct {
	orderID  string
	link     string
	checker  ports.StatusChecker
	cart     ports.CartClearer
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger

	// ctx carries request values but is never cancelled: an in-flight
	// check is allowed to finish after Stop.
	ctx      context.Context
	halt     chan struct{}
	haltOnce sync.Once
	done     chan struct{}

	mu          sync.Mutex
	status      domain.Status
	raw         string
	polling     bool
	stopped     bool
	cleared     bool
	lastChecked time.Time
}

func newTracker(ctx context.Context, orderID, link string, checker ports.StatusChecker, cart ports.CartClearer, interval time.Duration, log *zap.Logger) *Tracker {
	return &Tracker{
		orderID:  orderID,
		link:     link,
		checker:  checker,
		cart:     cart,
		interval: interval,
		now:      time.Now,
		log:      log.With(zap.String("order_id", orderID)),
		ctx:      context.WithoutCancel(ctx),
		halt:     make(chan struct{}),
		done:     make(chan struct{}),
		status:   domain.StatusPending,
	}
}

func (t *Tracker) start() {
	t.mu.Lock()
	t.polling = true
	t.mu.Unlock()

	go t.run()
}

func (t *Tracker) run() {
	defer close(t.done)

	metrics.ActiveTrackers.Inc()
	defer metrics.ActiveTrackers.Dec()

	t.check(triggerPoll)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.halt:
			return
		case <-ticker.C:
			select {
			case <-t.halt:
				return
			default:
			}
			t.check(triggerPoll)
		}
	}
}

// check runs one status request and applies its result.
func (t *Tracker) check(trigger string) {
	t.mu.Lock()
	if t.stopped || t.status.Terminal() {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	res, err := t.checker.CheckStatus(t.ctx, t.orderID)

	t.mu.Lock()
	if t.stopped || t.status.Terminal() {
		t.mu.Unlock()
		metrics.PaymentChecks.WithLabelValues(trigger, "discarded").Inc()
		return
	}
	t.lastChecked = t.now()

	if err != nil {
		t.mu.Unlock()
		metrics.PaymentChecks.WithLabelValues(trigger, "error").Inc()
		t.log.Warn("Payment status check failed", zap.String("trigger", trigger), zap.Error(err))
		return
	}

	status := domain.ParseStatus(res.Status)
	if status == "" {
		t.mu.Unlock()
		metrics.PaymentChecks.WithLabelValues(trigger, "empty").Inc()
		return
	}

	t.status = status
	t.raw = res.Status
	clearCart := false
	if status.Terminal() {
		t.polling = false
		t.stopLoop()
		if status.Accepting() && !t.cleared {
			t.cleared = true
			clearCart = true
		}
	}
	t.mu.Unlock()

	metrics.PaymentChecks.WithLabelValues(trigger, string(status)).Inc()

	if clearCart {
		t.log.Info("Payment confirmed, clearing cart")
		t.cart.Clear(t.ctx)
	} else if status.Rejecting() {
		t.log.Info("Payment ended without settlement", zap.String("status", string(status)))
	}
}

func (t *Tracker) stopLoop() {
	t.haltOnce.Do(func() { close(t.halt) })
}

// CheckNow performs one check outside the recurring schedule and returns
// the resulting snapshot.
func (t *Tracker) CheckNow() domain.Snapshot {
	t.check(triggerManual)
	return t.Snapshot()
}

// Stop cancels the recurring check. It is safe to call more than once.
func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.polling = false
	t.stopLoop()
	t.mu.Unlock()
}

// Done is closed once the polling goroutine has exited.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := domain.Snapshot{
		OrderID:     t.orderID,
		Status:      t.status,
		RawStatus:   t.raw,
		Polling:     t.polling,
		PaymentLink: t.link,
	}
	if !t.lastChecked.IsZero() {
		at := t.lastChecked
		snap.LastCheckedAt = &at
	}
	return snap
}
