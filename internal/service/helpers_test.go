package service

import (
	"context"
	"testing"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*Services, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return New(st, store.NewMemoryQuestions()), st
}

func addProduct(t *testing.T, st store.Store, name string, supply, sale string, stock int) model.Product {
	t.Helper()
	p := model.Product{
		Name:        name,
		SupplyPrice: decimal.RequireFromString(supply),
		SalePrice:   decimal.RequireFromString(sale),
		Stock:       stock,
		NetWeight:   250,
		Type:        model.TypeBean,
		Origin:      "Kenya",
		Composition: model.CompositionArabica,
	}
	require.NoError(t, st.Products().Create(context.Background(), &p))
	return p
}

func stockOf(t *testing.T, st store.Store, id uint) int {
	t.Helper()
	p, err := st.Products().Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

// lostStockRace behaves like the wrapped store except that every conditional
// stock decrement finds the stock already gone, as when another writer got
// there first
type lostStockRace struct {
	store.Store
}

func (s lostStockRace) Products() store.Products {
	return decrementFails{s.Store.Products()}
}

func (s lostStockRace) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.Store.Transaction(ctx, func(tx store.Store) error {
		return fn(lostStockRace{tx})
	})
}

type decrementFails struct {
	store.Products
}

func (decrementFails) DecrementStock(context.Context, uint, int) error {
	return store.ErrInsufficientStock
}

// cartLockSpy records how carts are read inside transactions
type cartLockSpy struct {
	store.Store
	locked   *int
	unlocked *int
}

func newCartLockSpy(st store.Store) cartLockSpy {
	return cartLockSpy{Store: st, locked: new(int), unlocked: new(int)}
}

func (s cartLockSpy) Carts() store.Carts {
	return spyCarts{Carts: s.Store.Carts(), spy: s}
}

func (s cartLockSpy) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.Store.Transaction(ctx, func(tx store.Store) error {
		return fn(cartLockSpy{Store: tx, locked: s.locked, unlocked: s.unlocked})
	})
}

type spyCarts struct {
	store.Carts
	spy cartLockSpy
}

func (c spyCarts) GetByUser(ctx context.Context, userID uint) (*model.Cart, error) {
	*c.spy.unlocked++
	return c.Carts.GetByUser(ctx, userID)
}

func (c spyCarts) LockByUser(ctx context.Context, userID uint) (*model.Cart, error) {
	*c.spy.locked++
	return c.Carts.LockByUser(ctx, userID)
}
