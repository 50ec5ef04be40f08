package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddMergesLines(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)
	b := addProduct(t, st, "Brazil Santos", "2.00", "5.00", 5)

	count, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = svc.Cart.Add(ctx, 1, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	view, err := svc.Cart.View(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, "25.00", view.Total.StringFixed(2))
	assert.Equal(t, 3, view.ItemCount)
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.Cart.Add(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartUpdateBelowOneRemovesLine(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)

	_, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	view, _ := svc.Cart.View(ctx, 1)
	itemID := view.Lines[0].ItemID

	count, err := svc.Cart.Update(ctx, 1, itemID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = svc.Cart.Update(ctx, 1, itemID, -5)
	require.NoError(t, err)
	assert.Zero(t, count)

	cart, err := st.Carts().GetByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	for _, item := range cart.Items {
		assert.GreaterOrEqual(t, item.Quantity, 1)
	}

	_, err = svc.Cart.Update(ctx, 1, itemID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Cart.Update(ctx, 1, itemID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCartUserCannotTouchOtherCarts(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)

	_, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	view, _ := svc.Cart.View(ctx, 1)

	_, err = svc.Cart.Update(ctx, 2, view.Lines[0].ItemID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Cart.Remove(ctx, 2, view.Lines[0].ItemID)
	assert.ErrorIs(t, err, ErrNotFound)

	count, _ := svc.Cart.Count(ctx, 1)
	assert.Equal(t, 1, count)
}

func TestCartRemoveAndDeletedProducts(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)
	b := addProduct(t, st, "Brazil Santos", "2.00", "5.00", 5)

	_, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	_, err = svc.Cart.Add(ctx, 1, b.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Catalog.Delete(ctx, b.ID))
	view, err := svc.Cart.View(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, a.ID, view.Lines[0].ProductID)

	count, err := svc.Cart.Remove(ctx, 1, view.Lines[0].ItemID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEmptyCartView(t *testing.T) {
	svc, _ := newTestServices(t)
	view, err := svc.Cart.View(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}

func TestCartConcurrentFirstAddsShareOneLine(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)

	const adds = 20
	var wg sync.WaitGroup
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Cart.Add(ctx, 7, a.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	cart, err := st.Carts().GetByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, adds, cart.Items[0].Quantity)
}

func TestCartAddKeepsExistingCart(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)

	require.NoError(t, st.Carts().Ensure(ctx, 3))
	before, err := st.Carts().GetByUser(ctx, 3)
	require.NoError(t, err)

	_, err = svc.Cart.Add(ctx, 3, a.ID)
	require.NoError(t, err)

	after, err := st.Carts().GetByUser(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Len(t, after.Items, 1)
}

func TestCartWritesReadTheCartLocked(t *testing.T) {
	ctx := context.Background()
	_, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)

	spy := newCartLockSpy(st)
	cart := NewCartService(spy)

	_, err := cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	_, err = cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)

	view, err := cart.View(ctx, 1)
	require.NoError(t, err)
	itemID := view.Lines[0].ItemID
	_, err = cart.Update(ctx, 1, itemID, 1)
	require.NoError(t, err)

	_, err = NewOrderService(spy).Place(ctx, 1)
	require.NoError(t, err)

	_, err = cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	view, _ = cart.View(ctx, 1)
	_, err = cart.Remove(ctx, 1, view.Lines[0].ItemID)
	require.NoError(t, err)

	// View reads outside a transaction, everything else holds the lock
	assert.Equal(t, 6, *spy.locked)
	assert.Equal(t, 2, *spy.unlocked)
}
