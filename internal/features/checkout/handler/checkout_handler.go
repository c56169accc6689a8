package handler

import (
	"context"
	"errors"
	"net/http"

	"delivery-client/internal/core/server"
	"delivery-client/internal/features/checkout/domain"
	"delivery-client/internal/features/checkout/service"
	coupons "delivery-client/internal/features/coupons/domain"

	"github.com/gofiber/fiber/v2"
)

// Checkout is the primary port used by the handler.
type Checkout interface {
	Begin(ctx context.Context) (service.Summary, *coupons.Result)
	Summary(ctx context.Context) service.Summary
	ApplyCoupon(ctx context.Context, code string) coupons.Result
	SelectHistory(id string) error
	UseFreshAddress(addr domain.FreshAddress)
	LookupPostalCode(ctx context.Context, cep string) domain.FreshAddress
	Submit(ctx context.Context, method string) (domain.Outcome, error)
}

// CheckoutHandler handles HTTP requests for checkout.
type CheckoutHandler struct {
	checkout Checkout
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout Checkout) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Register mounts the checkout routes.
func (h *CheckoutHandler) Register(r fiber.Router) {
	r.Get("/checkout", h.Get)
	r.Post("/checkout", h.Begin)
	r.Post("/checkout/coupon", h.ApplyCoupon)
	r.Put("/checkout/address", h.SelectAddress)
	r.Post("/checkout/address/lookup", h.LookupPostalCode)
	r.Post("/checkout/orders", h.Submit)
}

// CheckoutResponse is the summary with an optional coupon message.
type CheckoutResponse struct {
	service.Summary
	CouponResult *coupons.Result `json:"coupon_result,omitempty"`
}

// CouponRequest is the body of POST /checkout/coupon.
type CouponRequest struct {
	Code string `json:"code"`
}

// AddressRequest is the body of PUT /checkout/address. Mode "history"
// selects ID, mode "new" replaces the fresh form with Address.
type AddressRequest struct {
	Mode    domain.AddressMode  `json:"mode"`
	ID      string              `json:"id,omitempty"`
	Address domain.FreshAddress `json:"address"`
}

// LookupRequest is the body of POST /checkout/address/lookup.
type LookupRequest struct {
	CEP string `json:"cep"`
}

// SubmitRequest is the body of POST /checkout/orders.
type SubmitRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// Get handles GET /checkout.
// @Summary Checkout summary
// @Tags Checkout
// @Produce json
// @Success 200 {object} CheckoutResponse
// @Router /checkout [get]
func (h *CheckoutHandler) Get(c *fiber.Ctx) error {
	return c.JSON(CheckoutResponse{Summary: h.checkout.Summary(c.UserContext())})
}

// Begin handles POST /checkout.
// @Summary Enter checkout
// @Description Loads address history and applies a coupon selected on the promotions listing.
// @Tags Checkout
// @Produce json
// @Success 200 {object} CheckoutResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Begin(c *fiber.Ctx) error {
	summary, result := h.checkout.Begin(c.UserContext())
	return c.JSON(CheckoutResponse{Summary: summary, CouponResult: result})
}

// ApplyCoupon handles POST /checkout/coupon.
// @Summary Apply a coupon
// @Tags Checkout
// @Accept json
// @Produce json
// @Param body body CouponRequest true "Coupon code"
// @Success 200 {object} CheckoutResponse
// @Router /checkout/coupon [post]
func (h *CheckoutHandler) ApplyCoupon(c *fiber.Ctx) error {
	var req CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	result := h.checkout.ApplyCoupon(c.UserContext(), req.Code)
	return c.JSON(CheckoutResponse{Summary: h.checkout.Summary(c.UserContext()), CouponResult: &result})
}

// SelectAddress handles PUT /checkout/address.
// @Summary Choose the delivery address
// @Tags Checkout
// @Accept json
// @Produce json
// @Param body body AddressRequest true "Address selection"
// @Success 200 {object} CheckoutResponse
// @Failure 400 {object} server.ErrorResponse
// @Router /checkout/address [put]
func (h *CheckoutHandler) SelectAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	switch req.Mode {
	case domain.AddressHistory:
		if err := h.checkout.SelectHistory(req.ID); err != nil {
			return h.fail(c, err)
		}
	case domain.AddressNew:
		h.checkout.UseFreshAddress(req.Address)
	default:
		return server.Fail(c, http.StatusBadRequest, "Invalid address mode")
	}
	return c.JSON(CheckoutResponse{Summary: h.checkout.Summary(c.UserContext())})
}

// LookupPostalCode handles POST /checkout/address/lookup.
// @Summary Fill the address from a CEP
// @Tags Checkout
// @Accept json
// @Produce json
// @Param body body LookupRequest true "CEP"
// @Success 200 {object} CheckoutResponse
// @Router /checkout/address/lookup [post]
func (h *CheckoutHandler) LookupPostalCode(c *fiber.Ctx) error {
	var req LookupRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	h.checkout.LookupPostalCode(c.UserContext(), req.CEP)
	return c.JSON(CheckoutResponse{Summary: h.checkout.Summary(c.UserContext())})
}

// Submit handles POST /checkout/orders.
// @Summary Place the order
// @Tags Checkout
// @Accept json
// @Produce json
// @Param body body SubmitRequest true "Payment method"
// @Success 201 {object} domain.Outcome
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /checkout/orders [post]
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	out, err := h.checkout.Submit(c.UserContext(), req.PaymentMethod)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(out)
}

func (h *CheckoutHandler) fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	var rerr *domain.RejectionError

	switch {
	case errors.As(err, &verr):
		return server.Fail(c, http.StatusBadRequest, verr.Message)
	case errors.As(err, &rerr):
		return server.Fail(c, http.StatusUnprocessableEntity, rerr.Message)
	case errors.Is(err, domain.ErrNotAuthenticated):
		return server.Fail(c, http.StatusUnauthorized, "Faça login para finalizar o pedido.")
	case errors.Is(err, domain.ErrEmptyCart):
		return server.Fail(c, http.StatusBadRequest, "Seu carrinho está vazio.")
	default:
		return server.Fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
}
