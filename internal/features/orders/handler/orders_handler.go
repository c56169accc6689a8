package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/core/logger"
	"delivery-client/internal/core/money"
	"delivery-client/internal/core/server"
	"delivery-client/internal/features/orders/domain"
	"delivery-client/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Orders is the primary port used by the handler.
type Orders interface {
	List(ctx context.Context) ([]domain.Order, error)
	RepeatByID(ctx context.Context, orderID int64) (service.RepeatResult, error)
	Now() time.Time
}

// OrdersHandler handles HTTP requests for order history.
type OrdersHandler struct {
	orders Orders
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(orders Orders) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Register mounts the order routes.
func (h *OrdersHandler) Register(r fiber.Router) {
	r.Get("/orders", h.List)
	r.Post("/orders/:id/repeat", h.Repeat)
}

// OrderView is an order with its display fields.
type OrderView struct {
	domain.Order
	FinalPrice        money.Cents `json:"final_price"`
	FinalPriceDisplay string      `json:"final_price_display"`
	Delivered         bool        `json:"delivered"`
	Progress          string      `json:"progress"`
}

// RepeatResponse reports a repeat.
type RepeatResponse struct {
	service.RepeatResult
	Message string `json:"message,omitempty"`
}

// List handles GET /orders.
// @Summary Order history
// @Tags Orders
// @Produce json
// @Success 200 {array} OrderView
// @Failure 401 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /orders [get]
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.UserContext())
	if err != nil {
		if backend.IsUnauthorized(err) {
			return server.Fail(c, http.StatusUnauthorized, "Sessão expirada. Faça login novamente.")
		}
		logger.Named("orders").Error("Error fetching orders", zap.Error(err))
		return server.Fail(c, http.StatusBadGateway, "Erro ao carregar pedidos.")
	}

	now := h.orders.Now()
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		final := o.FinalPrice()
		views = append(views, OrderView{
			Order:             o,
			FinalPrice:        final,
			FinalPriceDisplay: money.Format(final),
			Delivered:         o.Delivered(now),
			Progress:          o.Progress(now),
		})
	}
	return c.JSON(views)
}

// Repeat handles POST /orders/:id/repeat.
// @Summary Rebuild the cart from a past order
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} RepeatResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /orders/{id}/repeat [post]
func (h *OrdersHandler) Repeat(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid order id")
	}

	res, err := h.orders.RepeatByID(c.UserContext(), id)
	if errors.Is(err, service.ErrOrderNotFound) {
		return server.Fail(c, http.StatusNotFound, "Pedido não encontrado.")
	}
	if err != nil {
		logger.Named("orders").Error("Error repeating order", zap.Int64("order_id", id), zap.Error(err))
		return server.Fail(c, http.StatusBadGateway, "Erro ao repetir pedido. Tente novamente.")
	}

	out := RepeatResponse{RepeatResult: res}
	if res.Unavailable > 0 {
		out.Message = fmt.Sprintf("%d item(s) deste pedido não estão mais disponíveis e foram removidos.", res.Unavailable)
	}
	return c.JSON(out)
}
