package service

import (
	"context"
	"errors"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService places orders and manages order history
type OrderService struct {
	store store.Store
	now   func() time.Time
}

func NewOrderService(st store.Store) *OrderService {
	return &OrderService{store: st, now: time.Now}
}

// Place turns the user's cart into an order. The whole workflow runs in one
// transaction: either the order exists, stock is decremented and the cart is
// empty, or nothing changed at all.
func (s *OrderService) Place(ctx context.Context, userID uint) (*model.Order, error) {
	log := logger.FromCtx(ctx)

	var order *model.Order
	remaining := map[uint]int{}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		cart, err := tx.Carts().LockByUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		ids := make([]uint, 0, len(cart.Items))
		for _, line := range cart.Items {
			ids = append(ids, line.ProductID)
		}
		products, err := tx.Products().LockMany(ctx, ids)
		if err != nil {
			return err
		}

		// lines for deleted products are dropped, the rest are summed per product
		requested := map[uint]int{}
		var seen []uint
		var lines []model.CartItem
		for _, line := range cart.Items {
			if _, ok := products[line.ProductID]; !ok {
				log.Debug("Dropping cart line for missing product", zap.Uint("product_id", line.ProductID))
				continue
			}
			if _, ok := requested[line.ProductID]; !ok {
				seen = append(seen, line.ProductID)
			}
			requested[line.ProductID] += line.Quantity
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var shortages []Shortage
		for _, id := range seen {
			p := products[id]
			if requested[id] > p.Stock {
				shortages = append(shortages, Shortage{
					ProductID: p.ID,
					Name:      p.Name,
					Available: p.Stock,
					Requested: requested[id],
				})
			}
			remaining[id] = p.Stock - requested[id]
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Items: shortages}
		}

		order = &model.Order{
			UserID:           userID,
			Status:           model.OrderStatusCreated,
			OrderDate:        s.now(),
			TotalSupplyPrice: decimal.Zero,
			TotalSalePrice:   decimal.Zero,
		}
		for _, line := range lines {
			p := products[line.ProductID]
			qty := decimal.NewFromInt(int64(line.Quantity))
			order.Items = append(order.Items, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.Quantity,
				SupplyPrice: p.SupplyPrice,
				SalePrice:   p.SalePrice,
			})
			order.TotalSupplyPrice = order.TotalSupplyPrice.Add(p.SupplyPrice.Mul(qty))
			order.TotalSalePrice = order.TotalSalePrice.Add(p.SalePrice.Mul(qty))
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		for _, id := range seen {
			if err := tx.Products().DecrementStock(ctx, id, requested[id]); err != nil {
				if errors.Is(err, store.ErrInsufficientStock) {
					return ErrStockChanged
				}
				return err
			}
		}

		return tx.Carts().Clear(ctx, cart.ID)
	})
	if err != nil {
		prometheus.RecordOrderRejected(rejectReason(err))
		return nil, err
	}

	prometheus.OrdersPlacedCounter.Inc()
	for id, stock := range remaining {
		prometheus.UpdateProductInventory(id, stock)
	}
	log.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.Int("items", order.ItemCount()),
		zap.String("total", order.TotalSalePrice.StringFixed(2)),
	)
	return order, nil
}

func rejectReason(err error) string {
	var shortage *InsufficientStockError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.As(err, &shortage):
		return "insufficient_stock"
	case errors.Is(err, ErrStockChanged):
		return "stock_changed"
	default:
		return "error"
	}
}

func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.store.Orders().List(ctx)
}

// UpdateStatus sets any known status; admins may also move an order back
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*model.Order, error) {
	st := model.OrderStatus(status)
	if !st.Valid() {
		return nil, invalid("unknown order status %q", status)
	}

	if err := s.store.Orders().UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("order")
		}
		return nil, err
	}
	order, err := s.store.Orders().Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("order")
	}
	return order, err
}
