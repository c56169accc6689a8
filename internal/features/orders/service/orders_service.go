package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-client/internal/core/logger"
	cart "delivery-client/internal/features/cart/domain"
	catalog "delivery-client/internal/features/catalog/domain"
	"delivery-client/internal/features/orders/domain"
	"delivery-client/internal/features/orders/ports"

	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("order not found")

// Catalog supplies the current products.
type Catalog interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

// Cart is the part of the cart store a repeat rewrites.
type Cart interface {
	Clear(ctx context.Context) cart.Totals
	Add(ctx context.Context, product catalog.Product, quantity int, notes string) (cart.Item, cart.Totals, error)
}

// RepeatResult reports how much of a past order made it back into the cart.
type RepeatResult struct {
	Added       int         `json:"added"`
	Unavailable int         `json:"unavailable"`
	Totals      cart.Totals `json:"totals"`
}

// OrdersService serves order history and rebuilds carts from past orders.
type OrdersService struct {
	history ports.OrderHistory
	catalog Catalog
	cart    Cart
	now     func() time.Time
	log     *zap.Logger
}

// NewOrdersService creates a new OrdersService.
func NewOrdersService(history ports.OrderHistory, catalog Catalog, cart Cart) *OrdersService {
	return &OrdersService{
		history: history,
		catalog: catalog,
		cart:    cart,
		now:     time.Now,
		log:     logger.Named("orders"),
	}
}

// Now returns the clock used for delivery progress.
func (s *OrdersService) Now() time.Time {
	return s.now()
}

// List returns past orders. Orders whose items could not be read are kept
// with no items.
func (s *OrdersService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.history.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ItemsErr != nil {
			s.log.Error("Failed to parse items for order", zap.Int64("order_id", o.ID), zap.Error(o.ItemsErr))
		}
	}
	return orders, nil
}

// RepeatByID finds orderID in the history and repeats it.
func (s *OrdersService) RepeatByID(ctx context.Context, orderID int64) (RepeatResult, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return RepeatResult{}, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return s.Repeat(ctx, o)
		}
	}
	return RepeatResult{}, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
}

// Repeat replaces the cart with the lines of order that are still sold.
// An order without items changes nothing. If the catalog cannot be loaded
// the cart is left as is.
func (s *OrdersService) Repeat(ctx context.Context, order domain.Order) (RepeatResult, error) {
	if len(order.Items) == 0 {
		return RepeatResult{}, nil
	}

	products, err := s.catalog.Products(ctx)
	if err != nil {
		return RepeatResult{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	index := catalog.Index(products)

	var result RepeatResult
	result.Totals = s.cart.Clear(ctx)

	for _, it := range order.Items {
		product, ok := index[it.ProductID]
		if !ok {
			result.Unavailable++
			continue
		}
		_, totals, err := s.cart.Add(ctx, product, it.Quantity, it.Notes)
		if err != nil {
			s.log.Warn("Skipping unrepeatable line", zap.Int64("order_id", order.ID), zap.Int64("product_id", it.ProductID), zap.Error(err))
			result.Unavailable++
			continue
		}
		result.Added++
		result.Totals = totals
	}

	if result.Unavailable > 0 {
		s.log.Info("Repeated order with unavailable items", zap.Int64("order_id", order.ID), zap.Int("unavailable", result.Unavailable))
	}
	return result, nil
}
