package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coffee kinds and blends accepted by the catalog
const (
	TypeBean   = "bean"
	TypeGround = "ground"

	CompositionArabica = "arabica"
	CompositionRobusta = "robusta"
)

// Product represents a coffee in the catalog. It is the only source of truth for
// current price and stock.
type Product struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null;index"`
	SupplyPrice decimal.Decimal `json:"supply_price" gorm:"type:numeric(12,2);not null"`
	SalePrice   decimal.Decimal `json:"sale_price" gorm:"type:numeric(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	NetWeight   float64         `json:"net_weight" gorm:"not null"`
	Type        string          `json:"type" gorm:"type:varchar(20);not null"`
	Origin      string          `json:"origin" gorm:"type:varchar(100);not null;index"`
	Composition string          `json:"composition" gorm:"type:varchar(20);not null"`
	ImgPath     string          `json:"img_path" gorm:"type:varchar(255)"`
	Info        string          `json:"info" gorm:"type:text"`
	Popularity  int             `json:"popularity" gorm:"not null;default:1"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// ValidType reports whether t is a known coffee kind
func ValidType(t string) bool {
	return t == TypeBean || t == TypeGround
}

// ValidComposition reports whether c is a known blend
func ValidComposition(c string) bool {
	return c == CompositionArabica || c == CompositionRobusta
}
