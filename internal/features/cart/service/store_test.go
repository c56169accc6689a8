package service

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"delivery-client/internal/core/cache"
	"delivery-client/internal/core/money"
	catalog "delivery-client/internal/features/catalog/domain"
	"delivery-client/internal/features/cart/adapters"
	"delivery-client/internal/features/cart/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	items   []domain.Item
	loadErr error
	saveErr error
	saves   int
}

func (f *failingRepo) Load(context.Context) ([]domain.Item, error) { return f.items, f.loadErr }

func (f *failingRepo) Save(_ context.Context, items []domain.Item) error {
	f.saves++
	return f.saveErr
}

var (
	burger = catalog.Product{ID: 1, Name: "X-Burger", Price: 2500}
	juice  = catalog.Product{ID: 2, Name: "Suco", Price: 890}
)

func newStore(t *testing.T) (*Store, cache.Cache) {
	t.Helper()
	store := cache.NewMemoryAdapter()
	return NewStore(context.Background(), adapters.NewCacheCartRepository(store)), store
}

func TestStore_AddComputesTotals(t *testing.T) {
	s, _ := newStore(t)

	item, totals, err := s.Add(context.Background(), burger, 3, "")
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, money.Cents(7500), totals.Total)
	assert.Equal(t, 3, totals.Count)
	assert.Equal(t, totals, s.Totals())
}

func TestStore_AddNeverMerges(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	first, _, err := s.Add(ctx, burger, 1, "sem cebola")
	require.NoError(t, err)
	second, _, err := s.Add(ctx, burger, 1, "com bacon")
	require.NoError(t, err)
	third, totals, err := s.Add(ctx, burger, 1, "com bacon")
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 3)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, second.ID, third.ID)
	assert.Equal(t, "sem cebola", items[0].Notes)
	assert.Equal(t, 3, totals.Count)
}

func TestStore_AddFreezesProductSnapshot(t *testing.T) {
	s, _ := newStore(t)
	p := burger

	_, _, err := s.Add(context.Background(), p, 1, "")
	require.NoError(t, err)
	p.Price = 9999

	assert.Equal(t, money.Cents(2500), s.Items()[0].Product.Price)
}

func TestStore_Update(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	item, _, _ := s.Add(ctx, burger, 1, "sem cebola")

	totals, err := s.Update(ctx, item.ID, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, totals.Count)
	assert.Equal(t, "sem cebola", s.Items()[0].Notes, "nil notes keeps existing notes")

	notes := ""
	_, err = s.Update(ctx, item.ID, 2, &notes)
	require.NoError(t, err)
	assert.Equal(t, "", s.Items()[0].Notes)
	assert.Equal(t, 2, s.Items()[0].Quantity)

	before := s.Totals()
	totals, err = s.Update(ctx, "unknown", 7, nil)
	require.NoError(t, err)
	assert.Equal(t, before, totals)

	_, err = s.Update(ctx, item.ID, 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestStore_Remove(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	a, _, _ := s.Add(ctx, burger, 1, "")
	b, _, _ := s.Add(ctx, juice, 2, "")

	totals := s.Remove(ctx, a.ID)
	assert.Equal(t, money.Cents(1780), totals.Total)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, b.ID, s.Items()[0].ID)

	assert.Equal(t, totals, s.Remove(ctx, "unknown"))
}

func TestStore_Clear(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	_, _, _ = s.Add(ctx, burger, 2, "")

	totals := s.Clear(ctx)
	assert.Equal(t, domain.Totals{}, totals)
	assert.Empty(t, s.Items())
	assert.True(t, s.Snapshot().Empty())

	// idempotent
	assert.Equal(t, domain.Totals{}, s.Clear(ctx))
}

func TestStore_AddRejectsInvalidQuantity(t *testing.T) {
	s, _ := newStore(t)
	_, _, err := s.Add(context.Background(), burger, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Empty(t, s.Items())
}

func TestStore_PersistsAndRehydrates(t *testing.T) {
	mem := cache.NewMemoryAdapter()
	repo := adapters.NewCacheCartRepository(mem)
	ctx := context.Background()

	s := NewStore(ctx, repo)
	_, _, _ = s.Add(ctx, burger, 3, "bem passado")
	_, _, _ = s.Add(ctx, juice, 1, "")

	restored := NewStore(ctx, repo)
	assert.Equal(t, s.Items(), restored.Items())
	assert.Equal(t, domain.Totals{Total: 8390, Count: 4}, restored.Totals())
}

func TestStore_CorruptPersistedValueIsEmpty(t *testing.T) {
	s := NewStore(context.Background(), &failingRepo{loadErr: errors.New("failed to unmarshal cart")})
	assert.Empty(t, s.Items())
	assert.Equal(t, domain.Totals{}, s.Totals())
}

func TestStore_DropsInvalidPersistedLines(t *testing.T) {
	repo := &failingRepo{items: []domain.Item{
		{ID: "ok", Product: burger, Quantity: 1},
		{ID: "zero", Product: burger, Quantity: 0},
		{ID: "", Product: juice, Quantity: 1},
	}}
	s := NewStore(context.Background(), repo)

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "ok", s.Items()[0].ID)
}

func TestStore_PersistenceFailureIsNonFatal(t *testing.T) {
	repo := &failingRepo{saveErr: errors.New("disk full")}
	s := NewStore(context.Background(), repo)

	_, totals, err := s.Add(context.Background(), burger, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Count)
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, 1, repo.saves)
}

// TestStore_TotalsInvariant runs random operation sequences and checks the
// derived totals against the items after every mutation.
func TestStore_TotalsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, _ := newStore(t)
	ctx := context.Background()
	products := []catalog.Product{burger, juice, {ID: 3, Price: 1}}

	for i := 0; i < 500; i++ {
		items := s.Items()
		switch op := rng.Intn(4); {
		case op == 0 || len(items) == 0:
			_, _, err := s.Add(ctx, products[rng.Intn(len(products))], 1+rng.Intn(5), strconv.Itoa(i))
			require.NoError(t, err)
		case op == 1:
			_, err := s.Update(ctx, items[rng.Intn(len(items))].ID, 1+rng.Intn(9), nil)
			require.NoError(t, err)
		case op == 2:
			s.Remove(ctx, items[rng.Intn(len(items))].ID)
		default:
			if rng.Intn(10) == 0 {
				s.Clear(ctx)
			}
		}

		snap := s.Snapshot()
		var total money.Cents
		count := 0
		for _, it := range snap.Items {
			total += it.Product.Price.Times(it.Quantity)
			count += it.Quantity
		}
		require.Equal(t, total, snap.Totals.Total)
		require.Equal(t, count, snap.Totals.Count)
	}
}
