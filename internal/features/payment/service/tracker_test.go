package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cart "delivery-client/internal/features/cart/domain"
	"delivery-client/internal/features/payment/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interval = 10 * time.Millisecond

// scriptedChecker answers with responses in order and repeats the last one.
type scriptedChecker struct {
	mu        sync.Mutex
	responses []response
	calls     int
	block     chan struct{}
}

type response struct {
	status string
	err    error
}

func (c *scriptedChecker) CheckStatus(ctx context.Context, orderID string) (domain.Check, error) {
	c.mu.Lock()
	c.calls++
	idx := c.calls - 1
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	r := c.responses[idx]
	block := c.block
	c.mu.Unlock()

	if block != nil {
		<-block
	}
	return domain.Check{Status: r.status}, r.err
}

func (c *scriptedChecker) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type countingCart struct {
	clears atomic.Int32
}

func (c *countingCart) Clear(ctx context.Context) cart.Totals {
	c.clears.Add(1)
	return cart.Totals{}
}

func TestTracker_PaidClearsCartOnceAndStops(t *testing.T) {
	checker := &scriptedChecker{responses: []response{{status: "pending"}, {status: "PAID"}}}
	c := &countingCart{}
	r := NewRegistry(checker, c, interval)

	tr := r.Track(context.Background(), "42", "https://pay.example/42")

	require.Eventually(t, func() bool { return tr.Snapshot().Status == domain.StatusPaid }, time.Second, interval)

	select {
	case <-tr.Done():
	case <-time.After(time.Second):
		t.Fatal("polling did not stop on paid")
	}

	calls := checker.Calls()
	time.Sleep(5 * interval)
	assert.Equal(t, calls, checker.Calls(), "no checks after terminal state")
	assert.Equal(t, int32(1), c.clears.Load())

	snap := tr.Snapshot()
	assert.False(t, snap.Polling)
	assert.Equal(t, "PAID", snap.RawStatus)
	assert.Equal(t, "https://pay.example/42", snap.PaymentLink)
	assert.NotNil(t, snap.LastCheckedAt)

	tr.CheckNow()
	assert.Equal(t, int32(1), c.clears.Load())
	assert.Equal(t, calls, checker.Calls(), "terminal state is sticky")
}

func TestTracker_ImmediateFirstCheck(t *testing.T) {
	checker := &scriptedChecker{responses: []response{{status: "pending"}}}
	r := NewRegistry(checker, &countingCart{}, time.Hour)
	defer r.Shutdown(context.Background())

	tr := r.Track(context.Background(), "1", "")

	assert.Eventually(t, func() bool { return checker.Calls() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, domain.StatusPending, tr.Snapshot().Status)
	assert.True(t, tr.Snapshot().Polling)
}

func TestTracker_RejectingStopsWithoutClearing(t *testing.T) {
	for _, status := range []string{"cancelled", "EXPIRED", "refunded"} {
		t.Run(status, func(t *testing.T) {
			checker := &scriptedChecker{responses: []response{{status: status}}}
			c := &countingCart{}
			tr := NewRegistry(checker, c, interval).Track(context.Background(), "7", "")

			select {
			case <-tr.Done():
			case <-time.After(time.Second):
				t.Fatal("polling did not stop")
			}
			assert.True(t, tr.Snapshot().Status.Rejecting())
			assert.Equal(t, int32(0), c.clears.Load())
		})
	}
}

func TestTracker_TransientErrorsAreRetried(t *testing.T) {
	checker := &scriptedChecker{responses: []response{
		{err: errors.New("timeout")},
		{err: errors.New("connection refused")},
		{status: "completed"},
	}}
	c := &countingCart{}
	tr := NewRegistry(checker, c, interval).Track(context.Background(), "9", "")

	require.Eventually(t, func() bool { return tr.Snapshot().Status == domain.StatusCompleted }, time.Second, interval)
	assert.GreaterOrEqual(t, checker.Calls(), 3)
	assert.Eventually(t, func() bool { return c.clears.Load() == 1 }, time.Second, interval)
}

func TestTracker_StopHaltsPolling(t *testing.T) {
	checker := &scriptedChecker{responses: []response{{status: "pending"}}}
	tr := NewRegistry(checker, &countingCart{}, interval).Track(context.Background(), "3", "")

	require.Eventually(t, func() bool { return checker.Calls() >= 2 }, time.Second, interval)
	tr.Stop()

	select {
	case <-tr.Done():
	case <-time.After(time.Second):
		t.Fatal("polling goroutine leaked")
	}

	calls := checker.Calls()
	time.Sleep(5 * interval)
	assert.Equal(t, calls, checker.Calls())
	assert.False(t, tr.Snapshot().Polling)

	tr.Stop()
}

func TestTracker_InFlightResultDiscardedAfterStop(t *testing.T) {
	block := make(chan struct{})
	checker := &scriptedChecker{responses: []response{{status: "paid"}}, block: block}
	c := &countingCart{}
	tr := NewRegistry(checker, c, time.Hour).Track(context.Background(), "5", "")

	require.Eventually(t, func() bool { return checker.Calls() == 1 }, time.Second, time.Millisecond)
	tr.Stop()
	close(block)

	select {
	case <-tr.Done():
	case <-time.After(time.Second):
		t.Fatal("polling goroutine leaked")
	}
	assert.Equal(t, domain.StatusPending, tr.Snapshot().Status)
	assert.Equal(t, int32(0), c.clears.Load())
}

func TestTracker_CheckNowDoesNotResetSchedule(t *testing.T) {
	checker := &scriptedChecker{responses: []response{{status: "pending"}}}
	r := NewRegistry(checker, &countingCart{}, time.Hour)
	defer r.Shutdown(context.Background())

	tr := r.Track(context.Background(), "8", "")
	require.Eventually(t, func() bool { return checker.Calls() == 1 }, time.Second, time.Millisecond)

	snap := tr.CheckNow()

	assert.Equal(t, 2, checker.Calls())
	assert.Equal(t, domain.StatusPending, snap.Status)
	assert.True(t, snap.Polling)
}

func TestTracker_UnknownStatusKeepsPolling(t *testing.T) {
	checker := &scriptedChecker{responses: []response{{status: "processing"}, {status: ""}, {status: "paid"}}}
	c := &countingCart{}
	tr := NewRegistry(checker, c, interval).Track(context.Background(), "11", "")

	require.Eventually(t, func() bool { return tr.Snapshot().Status == domain.StatusPaid }, time.Second, interval)
	assert.Equal(t, 3, checker.Calls())
}
