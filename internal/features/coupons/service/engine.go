package service

import (
	"context"
	"sync"

	"delivery-client/internal/core/logger"
	"delivery-client/internal/core/metrics"
	"delivery-client/internal/core/money"
	"delivery-client/internal/features/coupons/domain"
	"delivery-client/internal/features/coupons/ports"

	"go.uber.org/zap"
)

const (
	appliedMessage  = "Cupom aplicado com sucesso!"
	invalidMessage  = "Cupom inválido."
	transportFailed = "Erro ao validar cupom."
)

// Engine holds the single applied coupon for the current checkout.
// Validate never returns an error: every failure becomes a Result whose
// Applied is the zero value.
type Engine struct {
	provider ports.CouponProvider
	handoff  ports.HandoffRepository
	log      *zap.Logger

	mu      sync.Mutex
	applied domain.Applied
}

// NewEngine creates a new Engine.
func NewEngine(provider ports.CouponProvider, handoff ports.HandoffRepository) *Engine {
	return &Engine{
		provider: provider,
		handoff:  handoff,
		log:      logger.Named("coupons"),
	}
}

// Validate checks code against subtotal and replaces the applied state with
// the outcome. An empty code leaves the state untouched.
func (e *Engine) Validate(ctx context.Context, code string, subtotal money.Cents) domain.Result {
	code = domain.NormalizeCode(code)
	if code == "" {
		return domain.Result{Applied: e.Current()}
	}

	result := e.validate(ctx, code, subtotal)

	e.mu.Lock()
	e.applied = result.Applied
	e.mu.Unlock()

	return result
}

func (e *Engine) validate(ctx context.Context, code string, subtotal money.Cents) domain.Result {
	v, err := e.provider.Validate(ctx, code, subtotal)
	if err != nil {
		e.log.Error("Coupon validation failed", zap.String("code", code), zap.Error(err))
		metrics.CouponValidations.WithLabelValues("error").Inc()
		return domain.Result{MessageKind: domain.MessageError, Message: transportFailed}
	}

	if !v.Valid || v.Coupon == nil {
		msg := v.Message
		if msg == "" {
			msg = invalidMessage
		}
		e.log.Info("Coupon rejected", zap.String("code", code), zap.String("reason", msg))
		metrics.CouponValidations.WithLabelValues("rejected").Inc()
		return domain.Result{MessageKind: domain.MessageError, Message: msg}
	}

	coupon := *v.Coupon
	var discount money.Cents
	if v.Discount != nil {
		discount = *v.Discount
	} else {
		discount = coupon.LocalDiscount(subtotal)
	}

	metrics.CouponValidations.WithLabelValues("applied").Inc()
	e.log.Info("Coupon applied", zap.String("code", coupon.Code), zap.Int64("discount", int64(discount)))
	return domain.Result{
		Applied:     domain.Applied{Coupon: &coupon, Discount: discount},
		MessageKind: domain.MessageSuccess,
		Message:     appliedMessage,
	}
}

// Current returns the applied coupon state.
func (e *Engine) Current() domain.Applied {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applied
}

// Reset drops the applied coupon.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.applied = domain.Applied{}
	e.mu.Unlock()
}

// List returns the published coupons.
func (e *Engine) List(ctx context.Context) ([]domain.Coupon, error) {
	return e.provider.List(ctx)
}

// Select stores code for the next checkout entry.
func (e *Engine) Select(ctx context.Context, code string) (string, error) {
	code = domain.NormalizeCode(code)
	if code == "" {
		return "", nil
	}
	if err := e.handoff.Put(ctx, code); err != nil {
		return "", err
	}
	return code, nil
}

// TakeHandoff consumes the stored code. Read errors are logged and treated
// as no code.
func (e *Engine) TakeHandoff(ctx context.Context) string {
	code, err := e.handoff.Take(ctx)
	if err != nil {
		e.log.Warn("Failed to read selected coupon", zap.Error(err))
		return ""
	}
	return domain.NormalizeCode(code)
}
