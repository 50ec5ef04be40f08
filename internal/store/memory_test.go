package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s Store, name, origin string, price string, stock int) model.Product {
	t.Helper()
	p := model.Product{
		Name:        name,
		SupplyPrice: decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		SalePrice:   decimal.RequireFromString(price),
		Stock:       stock,
		NetWeight:   250,
		Type:        model.TypeBean,
		Origin:      origin,
		Composition: model.CompositionArabica,
	}
	require.NoError(t, s.Products().Create(context.Background(), &p))
	return p
}

func TestProductCreateDefaults(t *testing.T) {
	s := NewMemoryStore()
	p := seedProduct(t, s, "Kenya AA", "Kenya", "12.50", 3)

	assert.NotZero(t, p.ID)
	assert.Equal(t, 1, p.Popularity)

	got, err := s.Products().Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kenya AA", got.Name)

	_, err = s.Products().Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedProduct(t, s, "Kenya AA", "Kenya", "12.50", 3)
	seedProduct(t, s, "Brazil Santos", "Brazil", "8.00", 3)
	seedProduct(t, s, "Kenya Peaberry", "Kenya", "20.00", 3)

	found, err := s.Products().Find(ctx, ProductFilter{Text: "kenya"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	lo := decimal.NewFromInt(10)
	hi := decimal.NewFromInt(15)
	found, err = s.Products().Find(ctx, ProductFilter{MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Kenya AA", found[0].Name)

	found, err = s.Products().Find(ctx, ProductFilter{Origins: []string{"Brazil"}, Types: []string{model.TypeGround}})
	require.NoError(t, err)
	assert.Empty(t, found)

	origins, err := s.Products().Origins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brazil", "Kenya"}, origins)
}

func TestUpdateKeepsPopularity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := seedProduct(t, s, "Kenya AA", "Kenya", "12.50", 3)

	require.NoError(t, s.Products().IncrementPopularity(ctx, p.ID))
	p.Name = "Kenya AA Top"
	p.Popularity = 0
	require.NoError(t, s.Products().Update(ctx, &p))

	got, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kenya AA Top", got.Name)
	assert.Equal(t, 2, got.Popularity)
}

func TestDecrementStockIsConditional(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := seedProduct(t, s, "Kenya AA", "Kenya", "12.50", 3)

	require.NoError(t, s.Products().DecrementStock(ctx, p.ID, 2))
	assert.ErrorIs(t, s.Products().DecrementStock(ctx, p.ID, 2), ErrInsufficientStock)

	got, _ := s.Products().Get(ctx, p.ID)
	assert.Equal(t, 1, got.Stock)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := seedProduct(t, s, "Kenya AA", "Kenya", "12.50", 3)
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx Store) error {
		require.NoError(t, tx.Products().DecrementStock(ctx, p.ID, 3))
		require.NoError(t, tx.Orders().Create(ctx, &model.Order{UserID: 1}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := s.Products().Get(ctx, p.ID)
	assert.Equal(t, 3, got.Stock)
	orders, _ := s.Orders().List(ctx)
	assert.Empty(t, orders)
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := seedProduct(t, s, "Kenya AA", "Kenya", "12.50", 3)

	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.Products().DecrementStock(ctx, p.ID, 1); err != nil {
			return err
		}
		return tx.Orders().Create(ctx, &model.Order{UserID: 1})
	})
	require.NoError(t, err)

	got, _ := s.Products().Get(ctx, p.ID)
	assert.Equal(t, 2, got.Stock)
	orders, _ := s.Orders().ListByUser(ctx, 1)
	assert.Len(t, orders, 1)
}

func TestConcurrentTransactionsNeverOversell(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := seedProduct(t, s, "Kenya AA", "Kenya", "12.50", 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Transaction(ctx, func(tx Store) error {
				return tx.Products().DecrementStock(ctx, p.ID, 1)
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, _ := s.Products().Get(ctx, p.ID)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, 5, succeeded)
}

func TestCartItems(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cart := &model.Cart{UserID: 7}
	require.NoError(t, s.Carts().Create(ctx, cart))
	assert.ErrorIs(t, s.Carts().Create(ctx, &model.Cart{UserID: 7}), ErrDuplicate)

	item := &model.CartItem{CartID: cart.ID, ProductID: 1, Quantity: 1}
	require.NoError(t, s.Carts().SaveItem(ctx, item))
	item.Quantity = 4
	require.NoError(t, s.Carts().SaveItem(ctx, item))

	got, err := s.Carts().GetByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4, got.Items[0].Quantity)

	assert.ErrorIs(t, s.Carts().DeleteItem(ctx, cart.ID, 999), ErrNotFound)
	require.NoError(t, s.Carts().DeleteItem(ctx, cart.ID, item.ID))
	got, _ = s.Carts().GetByUser(ctx, 7)
	assert.Empty(t, got.Items)
}

func TestCartEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Carts().Ensure(ctx, 4))
	first, err := s.Carts().LockByUser(ctx, 4)
	require.NoError(t, err)

	require.NoError(t, s.Carts().Ensure(ctx, 4))
	second, err := s.Carts().LockByUser(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = s.Carts().LockByUser(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Users().Create(ctx, &model.User{Name: "Ann", Email: "ann@example.com"}))
	assert.ErrorIs(t, s.Users().Create(ctx, &model.User{Name: "Other", Email: "ANN@example.com"}), ErrDuplicate)

	bob := &model.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, s.Users().Create(ctx, bob))
	bob.Email = "ann@example.com"
	assert.ErrorIs(t, s.Users().Update(ctx, bob), ErrDuplicate)
}

func TestMemoryQuestions(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQuestions()

	thread, err := q.ThreadFor(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, thread.Items)

	require.NoError(t, q.Append(ctx, 3, model.Question{UserID: 1, Text: "Is it fresh?", Answer: model.Unanswered}))
	require.NoError(t, q.Append(ctx, 3, model.Question{UserID: 2, Text: "Roast date?", Answer: model.Unanswered}))

	thread, err = q.ThreadFor(ctx, 3)
	require.NoError(t, err)
	require.Len(t, thread.Items, 2)
	assert.Equal(t, "Is it fresh?", thread.Items[0].Text)
}
