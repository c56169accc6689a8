package handler

import (
	"context"
	"net/http"

	"delivery-client/internal/core/logger"
	"delivery-client/internal/core/server"
	"delivery-client/internal/features/coupons/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Coupons is the primary port used by the handler.
type Coupons interface {
	List(ctx context.Context) ([]domain.Coupon, error)
	Select(ctx context.Context, code string) (string, error)
}

// CouponsHandler handles HTTP requests for the promotions listing.
type CouponsHandler struct {
	coupons Coupons
}

// NewCouponsHandler creates a new CouponsHandler.
func NewCouponsHandler(coupons Coupons) *CouponsHandler {
	return &CouponsHandler{coupons: coupons}
}

// Register mounts the coupon routes.
func (h *CouponsHandler) Register(r fiber.Router) {
	r.Get("/coupons", h.List)
	r.Post("/coupons/selection", h.Select)
}

// SelectRequest is the body of POST /coupons/selection.
type SelectRequest struct {
	Code string `json:"code"`
}

// SelectResponse echoes the stored code.
type SelectResponse struct {
	Code string `json:"code"`
}

// List handles GET /coupons.
// @Summary Published coupons
// @Tags Coupons
// @Produce json
// @Success 200 {array} domain.Coupon
// @Failure 502 {object} server.ErrorResponse
// @Router /coupons [get]
func (h *CouponsHandler) List(c *fiber.Ctx) error {
	coupons, err := h.coupons.List(c.UserContext())
	if err != nil {
		logger.Named("coupons").Error("Failed to list coupons", zap.Error(err))
		return server.Fail(c, http.StatusBadGateway, "Erro ao carregar cupons.")
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	return c.JSON(coupons)
}

// Select handles POST /coupons/selection.
// @Summary Carry a coupon into the next checkout
// @Tags Coupons
// @Accept json
// @Produce json
// @Param body body SelectRequest true "Coupon code"
// @Success 200 {object} SelectResponse
// @Failure 400 {object} server.ErrorResponse
// @Router /coupons/selection [post]
func (h *CouponsHandler) Select(c *fiber.Ctx) error {
	var req SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	code, err := h.coupons.Select(c.UserContext(), req.Code)
	if err != nil {
		logger.Named("coupons").Error("Failed to store selected coupon", zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	if code == "" {
		return server.Fail(c, http.StatusBadRequest, "Informe o código do cupom.")
	}
	return c.JSON(SelectResponse{Code: code})
}
