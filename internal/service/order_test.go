package service

import (
	"context"
	"sync"
	"testing"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderSnapshotsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)

	for i := 0; i < 3; i++ {
		_, err := svc.Cart.Add(ctx, 1, a.ID)
		require.NoError(t, err)
	}

	order, err := svc.Orders.Place(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, order.ItemCount())
	assert.Equal(t, model.OrderStatusCreated, order.Status)
	assert.True(t, decimal.RequireFromString("12.00").Equal(order.TotalSupplyPrice))
	assert.True(t, decimal.RequireFromString("30.00").Equal(order.TotalSalePrice))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Kenya AA", order.Items[0].ProductName)

	assert.Equal(t, 2, stockOf(t, st, a.ID))

	view, err := svc.Cart.View(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	orders, err := svc.Orders.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPlaceOrderTotalsAcrossProducts(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.10", "9.99", 5)
	b := addProduct(t, st, "Brazil Santos", "2.25", "5.50", 5)

	_, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	_, err = svc.Cart.Add(ctx, 1, b.ID)
	require.NoError(t, err)
	_, err = svc.Cart.Add(ctx, 1, b.ID)
	require.NoError(t, err)

	order, err := svc.Orders.Place(ctx, 1)
	require.NoError(t, err)

	wantSupply := decimal.Zero
	wantSale := decimal.Zero
	for _, item := range order.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		wantSupply = wantSupply.Add(item.SupplyPrice.Mul(qty))
		wantSale = wantSale.Add(item.SalePrice.Mul(qty))
	}
	assert.True(t, wantSupply.Equal(order.TotalSupplyPrice))
	assert.True(t, wantSale.Equal(order.TotalSalePrice))
	assert.Equal(t, "20.99", order.TotalSalePrice.StringFixed(2))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 2)

	for i := 0; i < 3; i++ {
		_, err := svc.Cart.Add(ctx, 1, a.ID)
		require.NoError(t, err)
	}

	_, err := svc.Orders.Place(ctx, 1)
	var shortage *InsufficientStockError
	require.ErrorAs(t, err, &shortage)
	require.Len(t, shortage.Items, 1)
	assert.Equal(t, Shortage{ProductID: a.ID, Name: "Kenya AA", Available: 2, Requested: 3}, shortage.Items[0])

	assert.Equal(t, 2, stockOf(t, st, a.ID))
	orders, _ := svc.Orders.ListAll(ctx)
	assert.Empty(t, orders)

	count, _ := svc.Cart.Count(ctx, 1)
	assert.Equal(t, 3, count)
}

func TestPlaceOrderShortageLeavesOtherStockAlone(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)
	b := addProduct(t, st, "Brazil Santos", "2.00", "5.00", 0)

	_, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	_, err = svc.Cart.Add(ctx, 1, b.ID)
	require.NoError(t, err)

	_, err = svc.Orders.Place(ctx, 1)
	var shortage *InsufficientStockError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, b.ID, shortage.Items[0].ProductID)

	assert.Equal(t, 5, stockOf(t, st, a.ID))
	assert.Equal(t, 0, stockOf(t, st, b.ID))
}

func TestPlaceOrderSkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)
	gone := addProduct(t, st, "Discontinued", "1.00", "2.00", 0)

	_, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err = svc.Cart.Add(ctx, 1, gone.ID)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Catalog.Delete(ctx, gone.ID))

	// the deleted line would fail the stock check if it were not dropped
	order, err := svc.Orders.Place(ctx, 1)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, a.ID, order.Items[0].ProductID)

	count, _ := svc.Cart.Count(ctx, 1)
	assert.Zero(t, count)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)

	_, err := svc.Orders.Place(ctx, 1)
	assert.ErrorIs(t, err, ErrEmptyCart)

	gone := addProduct(t, st, "Discontinued", "1.00", "2.00", 3)
	_, err = svc.Cart.Add(ctx, 1, gone.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Catalog.Delete(ctx, gone.ID))

	_, err = svc.Orders.Place(ctx, 1)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderSnapshotSurvivesPriceChange(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)

	_, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	order, err := svc.Orders.Place(ctx, 1)
	require.NoError(t, err)

	price := decimal.RequireFromString("99.00")
	_, err = svc.Catalog.Update(ctx, a.ID, ProductPatch{SalePrice: &price})
	require.NoError(t, err)

	orders, err := svc.Orders.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Equal(t, "10.00", orders[0].Items[0].SalePrice.StringFixed(2))
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 3)

	const buyers = 10
	for u := uint(1); u <= buyers; u++ {
		_, err := svc.Cart.Add(ctx, u, a.ID)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for u := uint(1); u <= buyers; u++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			if _, err := svc.Orders.Place(ctx, userID); err == nil {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 3, placed)
	assert.Equal(t, 0, stockOf(t, st, a.ID))
	orders, _ := svc.Orders.ListAll(ctx)
	assert.Len(t, orders, 3)
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)

	_, err := svc.Cart.Add(ctx, 1, a.ID)
	require.NoError(t, err)
	order, err := svc.Orders.Place(ctx, 1)
	require.NoError(t, err)

	updated, err := svc.Orders.UpdateStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)

	_, err = svc.Orders.UpdateStatus(ctx, order.ID, "lost")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Orders.UpdateStatus(ctx, 999, "packing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOrderRollsBackWhenDecrementFails(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestServices(t)
	a := addProduct(t, st, "Kenya AA", "4.00", "10.00", 5)
	b := addProduct(t, st, "Brazil Santos", "2.00", "6.00", 5)

	for _, id := range []uint{a.ID, a.ID, b.ID} {
		_, err := svc.Cart.Add(ctx, 1, id)
		require.NoError(t, err)
	}

	order, err := NewOrderService(lostStockRace{st}).Place(ctx, 1)
	assert.ErrorIs(t, err, ErrStockChanged)
	assert.Nil(t, order)

	orders, err := svc.Orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	view, err := svc.Cart.View(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, view.ItemCount)
	assert.Len(t, view.Lines, 2)

	assert.Equal(t, 5, stockOf(t, st, a.ID))
	assert.Equal(t, 5, stockOf(t, st, b.ID))

	// the untouched store still places the same cart
	placed, err := svc.Orders.Place(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, placed.ItemCount())
	assert.Equal(t, 3, stockOf(t, st, a.ID))
}
