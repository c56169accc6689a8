package handler

import (
	"context"
	"net/http"

	"delivery-client/internal/core/logger"
	"delivery-client/internal/core/server"
	"delivery-client/internal/features/catalog/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const loadFailedMessage = "Não foi possível carregar o cardápio. Tente recarregar a página."

// Catalog is the primary port used by the handler.
type Catalog interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// CatalogHandler handles HTTP requests for the menu.
type CatalogHandler struct {
	service Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(s Catalog) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// Register mounts the catalog routes.
func (h *CatalogHandler) Register(r fiber.Router) {
	r.Get("/catalog/products", h.ListProducts)
	r.Get("/catalog/categories", h.ListCategories)
}

// ListProducts handles GET /catalog/products.
// @Summary List products
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Product
// @Failure 502 {object} server.ErrorResponse
// @Router /catalog/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.service.Products(c.UserContext())
	if err != nil {
		logger.Named("catalog").Error("Failed to list products", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusBadGateway, loadFailedMessage)
	}
	return c.Status(http.StatusOK).JSON(products)
}

// ListCategories handles GET /catalog/categories.
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Category
// @Failure 502 {object} server.ErrorResponse
// @Router /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		logger.Named("catalog").Error("Failed to list categories", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusBadGateway, loadFailedMessage)
	}
	return c.Status(http.StatusOK).JSON(categories)
}
