package service

import (
	"context"
	"errors"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"github.com/shopspring/decimal"
)

// CartService mutates and reads per-user carts. Stock is not checked here,
// only when an order is placed.
type CartService struct {
	store store.Store
}

func NewCartService(st store.Store) *CartService {
	return &CartService{store: st}
}

// CartLine is a cart item joined with the product's current data
type CartLine struct {
	ItemID    uint            `json:"item_id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	ImgPath   string          `json:"img_path"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Stock     int             `json:"stock"`
}

// CartView is what the cart page shows
type CartView struct {
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// cartFor returns the user's cart locked for the rest of tx, creating it first
// when missing
func cartFor(ctx context.Context, tx store.Store, userID uint) (*model.Cart, error) {
	if err := tx.Carts().Ensure(ctx, userID); err != nil {
		return nil, err
	}
	return tx.Carts().LockByUser(ctx, userID)
}

// Add puts one unit of the product into the user's cart and returns the new
// cart item count
func (s *CartService) Add(ctx context.Context, userID, productID uint) (int, error) {
	count := 0
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		p, err := tx.Products().Get(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("product")
		}
		if err != nil {
			return err
		}

		cart, err := cartFor(ctx, tx, userID)
		if err != nil {
			return err
		}

		if line := cart.Line(productID); line != nil {
			line.Quantity++
			if err := tx.Carts().SaveItem(ctx, line); err != nil {
				return err
			}
		} else {
			item := model.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1, UnitPrice: p.SalePrice}
			if err := tx.Carts().SaveItem(ctx, &item); err != nil {
				return err
			}
			cart.Items = append(cart.Items, item)
		}
		count = cart.ItemCount()
		return nil
	})
	if err != nil {
		return 0, err
	}

	prometheus.RecordCartOperation("add")
	return count, nil
}

// Update changes a line's quantity by delta. A line that drops below one unit
// is removed.
func (s *CartService) Update(ctx context.Context, userID, itemID uint, delta int) (int, error) {
	if delta == 0 {
		return 0, invalid("change must not be zero")
	}

	count := 0
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		cart, err := tx.Carts().LockByUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("cart item")
		}
		if err != nil {
			return err
		}

		line := cart.Item(itemID)
		if line == nil {
			return notFound("cart item")
		}

		line.Quantity += delta
		if line.Quantity < 1 {
			if err := tx.Carts().DeleteItem(ctx, cart.ID, itemID); err != nil {
				return err
			}
			line.Quantity = 0
		} else if err := tx.Carts().SaveItem(ctx, line); err != nil {
			return err
		}
		count = cart.ItemCount()
		return nil
	})
	if err != nil {
		return 0, err
	}

	prometheus.RecordCartOperation("update")
	return count, nil
}

// Remove deletes a line regardless of its quantity
func (s *CartService) Remove(ctx context.Context, userID, itemID uint) (int, error) {
	count := 0
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		cart, err := tx.Carts().LockByUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("cart item")
		}
		if err != nil {
			return err
		}
		line := cart.Item(itemID)
		if line == nil {
			return notFound("cart item")
		}
		if err := tx.Carts().DeleteItem(ctx, cart.ID, itemID); err != nil {
			return err
		}
		count = cart.ItemCount() - line.Quantity
		return nil
	})
	if err != nil {
		return 0, err
	}

	prometheus.RecordCartOperation("remove")
	return count, nil
}

// View joins the cart with current product data. Lines whose product is gone
// are left out.
func (s *CartService) View(ctx context.Context, userID uint) (*CartView, error) {
	view := &CartView{Lines: []CartLine{}, Total: decimal.Zero}

	cart, err := s.store.Carts().GetByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.store.Products().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, item := range cart.Items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		subtotal := p.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Lines = append(view.Lines, CartLine{
			ItemID:    item.ID,
			ProductID: p.ID,
			Name:      p.Name,
			ImgPath:   p.ImgPath,
			Price:     p.SalePrice,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
			Stock:     p.Stock,
		})
		view.Total = view.Total.Add(subtotal)
		view.ItemCount += item.Quantity
	}
	return view, nil
}

// Count is the number of units in the user's cart, for the page header
func (s *CartService) Count(ctx context.Context, userID uint) (int, error) {
	cart, err := s.store.Carts().GetByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}
