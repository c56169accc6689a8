package service

import (
	"context"
	"sync"

	"delivery-client/internal/core/logger"
	"delivery-client/internal/core/money"
	cart "delivery-client/internal/features/cart/domain"
	"delivery-client/internal/features/checkout/domain"
	"delivery-client/internal/features/checkout/ports"
	coupons "delivery-client/internal/features/coupons/domain"
	payment "delivery-client/internal/features/payment/service"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	missingFieldsMessage   = "Por favor, preencha todos os campos obrigatórios do endereço."
	invalidSelectedMessage = "Endereço selecionado inválido."
	invalidMethodMessage   = "Forma de pagamento inválida."
	createFailedMessage    = "Erro ao criar pedido."
)

// Cart is the part of the cart store checkout reads and clears.
type Cart interface {
	Snapshot() cart.Cart
	Clear(ctx context.Context) cart.Totals
}

// Coupons is the part of the coupon engine checkout drives.
type Coupons interface {
	Validate(ctx context.Context, code string, subtotal money.Cents) coupons.Result
	Current() coupons.Applied
	Reset()
	TakeHandoff(ctx context.Context) string
}

// Session reports whether orders can be placed.
type Session interface {
	Authenticated(ctx context.Context) bool
}

// Payments starts payment tracking for created orders.
type Payments interface {
	Track(ctx context.Context, orderID, link string) *payment.Tracker
}

// Deps groups the collaborators of an Orchestrator.
type Deps struct {
	Cart     Cart
	Coupons  Coupons
	Session  Session
	Payments Payments
	Orders   ports.OrderCreator
	History  ports.AddressHistory
	Postal   ports.PostalCodeLookup
	Opener   ports.LinkOpener
}

// Orchestrator turns the cart, the applied coupon, the selected address and
// a payment method into one order, then routes on the answer.
type Orchestrator struct {
	deps     Deps
	validate *validator.Validate
	log      *zap.Logger

	mu         sync.Mutex
	history    []domain.HistoricalAddress
	mode       domain.AddressMode
	selectedID string
	fresh      domain.FreshAddress
}

// NewOrchestrator creates a new Orchestrator. The fresh address form is
// active until Begin finds address history.
func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{
		deps:     deps,
		validate: validator.New(),
		log:      logger.Named("checkout"),
		mode:     domain.AddressNew,
	}
}

// Summary is the checkout view model.
type Summary struct {
	Items             []cart.Item                `json:"items"`
	Subtotal          money.Cents                `json:"subtotal"`
	Discount          money.Cents                `json:"discount"`
	FinalTotal        money.Cents                `json:"final_total"`
	SubtotalDisplay   string                     `json:"subtotal_display"`
	DiscountDisplay   string                     `json:"discount_display"`
	FinalTotalDisplay string                     `json:"final_total_display"`
	Coupon            *coupons.Coupon            `json:"coupon"`
	AddressMode       domain.AddressMode         `json:"address_mode"`
	SelectedAddressID string                     `json:"selected_address_id,omitempty"`
	History           []domain.HistoricalAddress `json:"history"`
	FreshAddress      domain.FreshAddress        `json:"fresh_address"`
	Authenticated     bool                       `json:"authenticated"`
}

// Begin enters checkout: it reloads address history, defaulting to the most
// recent entry, and applies a coupon handed off from the promotions listing.
// The returned result is nil when no coupon was handed off.
func (o *Orchestrator) Begin(ctx context.Context) (Summary, *coupons.Result) {
	var history []domain.HistoricalAddress
	if o.deps.Session.Authenticated(ctx) {
		entries, err := o.deps.History.LastAddresses(ctx)
		if err != nil {
			o.log.Error("Failed to load address history", zap.Error(err))
		} else {
			history = domain.History(entries)
		}
	}

	o.mu.Lock()
	o.history = history
	if len(history) > 0 {
		o.mode = domain.AddressHistory
		o.selectedID = history[0].ID
		o.fresh = domain.FreshAddress{}
	} else {
		o.mode = domain.AddressNew
		o.selectedID = ""
	}
	o.mu.Unlock()

	var result *coupons.Result
	if code := o.deps.Coupons.TakeHandoff(ctx); code != "" {
		res := o.deps.Coupons.Validate(ctx, code, o.deps.Cart.Snapshot().Totals.Total)
		result = &res
	}
	return o.Summary(ctx), result
}

// ApplyCoupon validates code against the current subtotal.
func (o *Orchestrator) ApplyCoupon(ctx context.Context, code string) coupons.Result {
	return o.deps.Coupons.Validate(ctx, code, o.deps.Cart.Snapshot().Totals.Total)
}

// SelectHistory activates a historical address and discards fresh edits.
func (o *Orchestrator) SelectHistory(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.findHistory(id); !ok {
		return &domain.ValidationError{Message: invalidSelectedMessage}
	}
	o.mode = domain.AddressHistory
	o.selectedID = id
	o.fresh = domain.FreshAddress{}
	return nil
}

// UseFreshAddress activates the fresh address form with addr and drops the
// history selection.
func (o *Orchestrator) UseFreshAddress(addr domain.FreshAddress) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.mode = domain.AddressNew
	o.selectedID = ""
	o.fresh = addr
}

// LookupPostalCode fills the fresh address from cep. Codes that are not
// eight digits are not looked up and lookup failures leave the form as is.
func (o *Orchestrator) LookupPostalCode(ctx context.Context, cep string) domain.FreshAddress {
	o.mu.Lock()
	o.mode = domain.AddressNew
	o.selectedID = ""
	o.fresh.CEP = cep
	o.mu.Unlock()

	clean, ok := domain.CleanCEP(cep)
	if !ok {
		return o.freshAddress()
	}

	found, err := o.deps.Postal.Lookup(ctx, clean)
	if err != nil {
		o.log.Debug("CEP lookup failed", zap.String("cep", clean), zap.Error(err))
		return o.freshAddress()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.fresh.Street = found.Street
	o.fresh.Neighborhood = found.Neighborhood
	o.fresh.City = found.City
	o.fresh.State = found.State
	return o.fresh
}

func (o *Orchestrator) freshAddress() domain.FreshAddress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fresh
}

// Summary computes the current view. The final total is advisory; the
// server decides the charge.
func (o *Orchestrator) Summary(ctx context.Context) Summary {
	snap := o.deps.Cart.Snapshot()
	applied := o.deps.Coupons.Current()
	final := coupons.FinalTotal(snap.Totals.Total, applied.Discount)

	o.mu.Lock()
	defer o.mu.Unlock()

	history := make([]domain.HistoricalAddress, len(o.history))
	copy(history, o.history)

	return Summary{
		Items:             snap.Items,
		Subtotal:          snap.Totals.Total,
		Discount:          applied.Discount,
		FinalTotal:        final,
		SubtotalDisplay:   money.Format(snap.Totals.Total),
		DiscountDisplay:   money.Format(applied.Discount),
		FinalTotalDisplay: money.Format(final),
		Coupon:            applied.Coupon,
		AddressMode:       o.mode,
		SelectedAddressID: o.selectedID,
		History:           history,
		FreshAddress:      o.fresh,
		Authenticated:     o.deps.Session.Authenticated(ctx),
	}
}

func (o *Orchestrator) findHistory(id string) (domain.HistoricalAddress, bool) {
	for _, h := range o.history {
		if h.ID == id {
			return h, true
		}
	}
	return domain.HistoricalAddress{}, false
}

// resolveAddress returns the notes line and delivery fields of the active
// address form.
func (o *Orchestrator) resolveAddress() (string, domain.Delivery, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode == domain.AddressHistory {
		h, ok := o.findHistory(o.selectedID)
		if !ok {
			return "", domain.Delivery{}, &domain.ValidationError{Message: invalidSelectedMessage}
		}
		return h.Notes(), h.Delivery(), nil
	}

	addr := o.fresh.Trimmed()
	if err := o.validate.Struct(addr); err != nil {
		return "", domain.Delivery{}, &domain.ValidationError{Message: missingFieldsMessage}
	}
	return addr.Notes(), addr.Delivery(), nil
}
