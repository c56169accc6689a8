package service

import (
	"context"
	"errors"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/core/metrics"
	"delivery-client/internal/features/checkout/domain"

	"go.uber.org/zap"
)

// Submit places the order with method. Validation failures happen before
// any network call; a rejected order leaves cart and coupon untouched.
func (o *Orchestrator) Submit(ctx context.Context, method string) (domain.Outcome, error) {
	pm, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return domain.Outcome{}, &domain.ValidationError{Message: invalidMethodMessage}
	}

	if !o.deps.Session.Authenticated(ctx) {
		return domain.Outcome{}, domain.ErrNotAuthenticated
	}

	snap := o.deps.Cart.Snapshot()
	if snap.Empty() {
		return domain.Outcome{}, domain.ErrEmptyCart
	}

	notes, delivery, err := o.resolveAddress()
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues(string(pm), "invalid").Inc()
		return domain.Outcome{}, err
	}

	req := domain.CreateOrderRequest{
		Items:         make([]domain.OrderLine, 0, len(snap.Items)),
		Notes:         notes,
		PaymentMethod: pm,
		Delivery:      delivery,
	}
	for _, it := range snap.Items {
		req.Items = append(req.Items, domain.OrderLine{ProductID: it.Product.ID, Quantity: it.Quantity, Notes: it.Notes})
	}
	if code := o.deps.Coupons.Current().Code(); code != "" {
		req.CouponCode = &code
	}

	resp, err := o.deps.Orders.CreateOrder(ctx, req)
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues(string(pm), "rejected").Inc()
		o.log.Error("Order creation failed", zap.String("payment_method", string(pm)), zap.Error(err))
		return domain.Outcome{}, &domain.RejectionError{
			Message: backend.Message(err, createFailedMessage, "payment_error", "error"),
			Err:     err,
		}
	}
	if !resp.Success {
		metrics.OrdersSubmitted.WithLabelValues(string(pm), "rejected").Inc()
		msg := firstNonEmpty(resp.PaymentError, resp.Error, createFailedMessage)
		o.log.Warn("Order rejected", zap.String("payment_method", string(pm)), zap.String("message", msg))
		return domain.Outcome{}, &domain.RejectionError{Message: msg, Err: errors.New(msg)}
	}

	return o.route(ctx, pm, resp), nil
}

func (o *Orchestrator) route(ctx context.Context, pm domain.PaymentMethod, resp *domain.CreateOrderResponse) domain.Outcome {
	out := domain.Outcome{OrderID: string(resp.OrderID), PaymentMethod: pm}
	log := o.log.With(zap.String("order_id", out.OrderID), zap.String("payment_method", string(pm)))

	o.deps.Coupons.Reset()

	link := resp.Link()
	switch {
	case link != "" && pm.Online():
		if err := o.deps.Opener.Open(ctx, link); err != nil {
			log.Warn("Failed to open payment link", zap.Error(err))
		}
		o.deps.Payments.Track(ctx, out.OrderID, link)
		out.Next = domain.StepPayment
		out.PaymentLink = link
		metrics.OrdersSubmitted.WithLabelValues(string(pm), "awaiting_payment").Inc()
		log.Info("Order created, awaiting payment")

	case pm == domain.PaymentCash:
		o.deps.Cart.Clear(ctx)
		out.Next = domain.StepOrders
		out.CartCleared = true
		metrics.OrdersSubmitted.WithLabelValues(string(pm), "completed").Inc()
		log.Info("Order created")

	default:
		o.deps.Cart.Clear(ctx)
		out.Next = domain.StepOrders
		out.CartCleared = true
		out.Degraded = true
		metrics.OrdersSubmitted.WithLabelValues(string(pm), "degraded").Inc()
		log.Warn("No payment link returned for online payment")
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
