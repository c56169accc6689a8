package handler

import (
	"net/http"

	"delivery-client/internal/core/server"
	"delivery-client/internal/features/payment/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const notTrackedMessage = "Pedido não está sendo acompanhado."

// PaymentHandler exposes the payment trackers.
type PaymentHandler struct {
	registry *service.Registry
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(registry *service.Registry) *PaymentHandler {
	return &PaymentHandler{registry: registry}
}

// Register mounts the payment routes.
func (h *PaymentHandler) Register(r fiber.Router) {
	r.Get("/payments/:orderId", h.Get)
	r.Post("/payments/:orderId", h.Track)
	r.Post("/payments/:orderId/check", h.CheckNow)
	r.Delete("/payments/:orderId", h.Release)
}

// TrackRequest is the optional body of POST /payments/:orderId.
type TrackRequest struct {
	PaymentLink string `json:"payment_link"`
}

// Get handles GET /payments/:orderId.
// @Summary Payment tracking state
// @Tags Payments
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} domain.Snapshot
// @Failure 404 {object} server.ErrorResponse
// @Router /payments/{orderId} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	t, ok := h.registry.Get(c.Params("orderId"))
	if !ok {
		return server.Fail(c, http.StatusNotFound, notTrackedMessage)
	}
	return c.JSON(t.Snapshot())
}

// Track handles POST /payments/:orderId. Re-entering returns the running tracker.
// @Summary Start tracking a payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param body body TrackRequest false "Payment link"
// @Success 200 {object} domain.Snapshot
// @Router /payments/{orderId} [post]
func (h *PaymentHandler) Track(c *fiber.Ctx) error {
	var req TrackRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return server.Fail(c, http.StatusBadRequest, "Invalid request body")
		}
	}
	// Params share fiber's request buffer; the tracker outlives the request.
	orderID := utils.CopyString(c.Params("orderId"))
	t := h.registry.Track(c.UserContext(), orderID, req.PaymentLink)
	return c.JSON(t.Snapshot())
}

// CheckNow handles POST /payments/:orderId/check.
// @Summary Check payment status now
// @Tags Payments
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} domain.Snapshot
// @Failure 404 {object} server.ErrorResponse
// @Router /payments/{orderId}/check [post]
func (h *PaymentHandler) CheckNow(c *fiber.Ctx) error {
	t, ok := h.registry.Get(c.Params("orderId"))
	if !ok {
		return server.Fail(c, http.StatusNotFound, notTrackedMessage)
	}
	return c.JSON(t.CheckNow())
}

// Release handles DELETE /payments/:orderId.
// @Summary Stop tracking a payment
// @Tags Payments
// @Param orderId path string true "Order ID"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Router /payments/{orderId} [delete]
func (h *PaymentHandler) Release(c *fiber.Ctx) error {
	if !h.registry.Release(c.Params("orderId")) {
		return server.Fail(c, http.StatusNotFound, notTrackedMessage)
	}
	return c.SendStatus(http.StatusNoContent)
}

