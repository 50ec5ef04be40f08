package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is owned by exactly one user
type Cart struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	UserID    uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a line item. Quantity is always at least 1; UnitPrice is the sale
// price captured when the line was first added.
type CartItem struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	CartID    uint            `json:"cart_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null;check:chk_cart_items_quantity,quantity >= 1"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	CreatedAt time.Time       `json:"created_at"`
}

// Line returns the line for productID, or nil
func (c *Cart) Line(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Item returns the line with the given line ID, or nil
func (c *Cart) Item(id uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemCount is the total number of units across all lines
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
