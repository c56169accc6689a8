package handler

import (
	"context"
	"errors"
	"net/http"

	"delivery-client/internal/core/logger"
	"delivery-client/internal/core/server"
	catalog "delivery-client/internal/features/catalog/domain"
	catalogservice "delivery-client/internal/features/catalog/service"
	"delivery-client/internal/features/cart/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Cart is the primary port used by the handler.
type Cart interface {
	Add(ctx context.Context, product catalog.Product, quantity int, notes string) (domain.Item, domain.Totals, error)
	Update(ctx context.Context, itemID string, quantity int, notes *string) (domain.Totals, error)
	Remove(ctx context.Context, itemID string) domain.Totals
	Clear(ctx context.Context) domain.Totals
	Snapshot() domain.Cart
}

// ProductFinder resolves a product from the current catalog.
type ProductFinder interface {
	FindProduct(ctx context.Context, id int64) (catalog.Product, error)
}

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	cart     Cart
	products ProductFinder
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart Cart, products ProductFinder) *CartHandler {
	return &CartHandler{cart: cart, products: products}
}

// Register mounts the cart routes.
func (h *CartHandler) Register(r fiber.Router) {
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/:id", h.UpdateItem)
	r.Delete("/cart/items/:id", h.RemoveItem)
	r.Delete("/cart", h.Clear)
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

// UpdateItemRequest is the body of PATCH /cart/items/:id. Omitted notes keep
// the current notes.
type UpdateItemRequest struct {
	Quantity int     `json:"quantity"`
	Notes    *string `json:"notes"`
}

// CartResponse is the cart with display totals.
type CartResponse struct {
	domain.Cart
	TotalDisplay string `json:"total_display"`
}

func (h *CartHandler) respond(c *fiber.Ctx, status int) error {
	snap := h.cart.Snapshot()
	return c.Status(status).JSON(CartResponse{Cart: snap, TotalDisplay: snap.Totals.Total.String()})
}

// Get handles GET /cart.
// @Summary Current cart
// @Tags Cart
// @Produce json
// @Success 200 {object} CartResponse
// @Router /cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return h.respond(c, http.StatusOK)
}

// AddItem handles POST /cart/items.
// @Summary Add a line
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body AddItemRequest true "Line"
// @Success 201 {object} CartResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	product, err := h.products.FindProduct(c.UserContext(), req.ProductID)
	if errors.Is(err, catalogservice.ErrProductNotFound) {
		return server.Fail(c, http.StatusNotFound, "Produto não encontrado")
	}
	if err != nil {
		logger.Named("cart").Error("Failed to resolve product", zap.Int64("product_id", req.ProductID), zap.Error(err))
		return server.Fail(c, http.StatusBadGateway, "Não foi possível carregar o produto.")
	}

	if _, _, err := h.cart.Add(c.UserContext(), product, req.Quantity, req.Notes); err != nil {
		return quantityFailure(c, err)
	}
	return h.respond(c, http.StatusCreated)
}

// UpdateItem handles PATCH /cart/items/:id.
// @Summary Edit a line
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Line ID"
// @Param body body UpdateItemRequest true "Changes"
// @Success 200 {object} CartResponse
// @Failure 400 {object} server.ErrorResponse
// @Router /cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.cart.Update(c.UserContext(), c.Params("id"), req.Quantity, req.Notes); err != nil {
		return quantityFailure(c, err)
	}
	return h.respond(c, http.StatusOK)
}

// RemoveItem handles DELETE /cart/items/:id.
// @Summary Remove a line
// @Tags Cart
// @Produce json
// @Param id path string true "Line ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	h.cart.Remove(c.UserContext(), c.Params("id"))
	return h.respond(c, http.StatusOK)
}

// Clear handles DELETE /cart.
// @Summary Empty the cart
// @Tags Cart
// @Produce json
// @Success 200 {object} CartResponse
// @Router /cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	h.cart.Clear(c.UserContext())
	return h.respond(c, http.StatusOK)
}

func quantityFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidQuantity) {
		return server.Fail(c, http.StatusBadRequest, "A quantidade mínima é 1.")
	}
	return server.Fail(c, http.StatusInternalServerError, "Internal Server Error")
}
