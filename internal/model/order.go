package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the aggregate fulfilment state of an order
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPacking    OrderStatus = "packing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses lists every status in fulfilment order
var OrderStatuses = []OrderStatus{
	OrderStatusCreated,
	OrderStatusProcessing,
	OrderStatusPacking,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot taken at placement time. Only Status changes
// afterwards.
type Order struct {
	ID               uint            `json:"id" gorm:"primarykey"`
	UserID           uint            `json:"user_id" gorm:"index;not null"`
	Items            []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalSupplyPrice decimal.Decimal `json:"total_supply_price" gorm:"type:numeric(12,2);not null"`
	TotalSalePrice   decimal.Decimal `json:"total_sale_price" gorm:"type:numeric(12,2);not null"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'created'"`
	OrderDate        time.Time       `json:"order_date" gorm:"not null"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderItem copies product price data as it was at placement
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	OrderID     uint            `json:"order_id" gorm:"index;not null"`
	ProductID   uint            `json:"product_id" gorm:"not null"`
	ProductName string          `json:"product_name" gorm:"type:varchar(255)"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	SupplyPrice decimal.Decimal `json:"supply_price" gorm:"type:numeric(12,2);not null"`
	SalePrice   decimal.Decimal `json:"sale_price" gorm:"type:numeric(12,2);not null"`
}

// ItemCount is the total number of units in the order
func (o *Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
