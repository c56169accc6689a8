package service

import (
	"context"
	"sync"

	"delivery-client/internal/core/logger"
	catalog "delivery-client/internal/features/catalog/domain"
	"delivery-client/internal/features/cart/domain"
	"delivery-client/internal/features/cart/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store owns the working cart. It is the single writer of the persisted item
// list: every mutation updates memory first, recomputes totals, then persists
// the whole list while still holding the lock, so writes land in call order.
// Persistence failures are logged and ignored; memory stays authoritative.
type Store struct {
	repo  ports.CartRepository
	newID func() string
	log   *zap.Logger

	mu     sync.Mutex
	items  []domain.Item
	totals domain.Totals
}

// NewStore creates a Store and rehydrates persisted items. A corrupt
// persisted value yields an empty cart.
func NewStore(ctx context.Context, repo ports.CartRepository) *Store {
	s := &Store{
		repo:  repo,
		newID: func() string { return uuid.NewString() },
		log:   logger.Named("cart"),
	}

	items, err := repo.Load(ctx)
	if err != nil {
		s.log.Error("Failed to parse cart", zap.Error(err))
		items = nil
	}

	for _, it := range items {
		if it.Quantity < 1 || it.ID == "" {
			s.log.Warn("Dropping invalid persisted cart line", zap.String("temp_id", it.ID), zap.Int("quantity", it.Quantity))
			continue
		}
		s.items = append(s.items, it)
	}
	s.totals = domain.Compute(s.items)
	return s
}

// Add appends a new line. Lines are never merged, even for the same
// product and notes.
func (s *Store) Add(ctx context.Context, product catalog.Product, quantity int, notes string) (domain.Item, domain.Totals, error) {
	if quantity < 1 {
		return domain.Item{}, s.Totals(), domain.ErrInvalidQuantity
	}

	item := domain.Item{
		ID:       s.newID(),
		Product:  product,
		Quantity: quantity,
		Notes:    notes,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)
	return item, s.commit(ctx), nil
}

// Update replaces quantity and, when notes is non-nil, the notes of a line.
// Unknown ids are a no-op.
func (s *Store) Update(ctx context.Context, itemID string, quantity int, notes *string) (domain.Totals, error) {
	if quantity < 1 {
		return s.Totals(), domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return s.totals, nil
	}

	updated := s.items[idx]
	updated.Quantity = quantity
	if notes != nil {
		updated.Notes = *notes
	}
	s.items = replaceAt(s.items, idx, updated)
	return s.commit(ctx), nil
}

// Remove drops a line. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, itemID string) domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return s.totals
	}

	next := make([]domain.Item, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	s.items = next
	return s.commit(ctx)
}

// Clear empties the cart. Safe to call on an empty cart.
func (s *Store) Clear(ctx context.Context) domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.commit(ctx)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Totals returns the current derived totals.
func (s *Store) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Snapshot returns items and totals read under one lock.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Item, len(s.items))
	copy(items, s.items)
	return domain.Cart{Items: items, Totals: s.totals}
}

// commit recomputes totals and persists. Caller holds s.mu.
func (s *Store) commit(ctx context.Context) domain.Totals {
	s.totals = domain.Compute(s.items)

	if err := s.repo.Save(ctx, s.items); err != nil {
		s.log.Warn("Failed to persist cart", zap.Int("lines", len(s.items)), zap.Error(err))
	}
	return s.totals
}

func (s *Store) indexOf(itemID string) int {
	for i, it := range s.items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// replaceAt copies so snapshots handed out earlier never change under the reader.
func replaceAt(items []domain.Item, idx int, item domain.Item) []domain.Item {
	next := make([]domain.Item, len(items))
	copy(next, items)
	next[idx] = item
	return next
}
