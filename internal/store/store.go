// Package store holds the persistence layer: repository interfaces, the gorm
// (PostgreSQL) implementation used in production, the MongoDB question-thread
// store, and in-memory implementations of the same contracts.
package store

import (
	"context"
	"errors"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("duplicate record")
	// ErrInsufficientStock is returned by a conditional stock decrement that
	// would take stock below zero
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductFilter narrows a catalog listing. Every set field must match.
type ProductFilter struct {
	Text         string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinWeight    *float64
	MaxWeight    *float64
	Origins      []string
	Types        []string
	Compositions []string
}

// Products is the catalog repository
type Products interface {
	List(ctx context.Context) ([]model.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	Origins(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	// GetMany returns the products that still exist, keyed by ID
	GetMany(ctx context.Context, ids []uint) (map[uint]model.Product, error)
	// LockMany is GetMany taking row locks until the surrounding transaction ends
	LockMany(ctx context.Context, ids []uint) (map[uint]model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint) error
	IncrementPopularity(ctx context.Context, id uint) error
	// DecrementStock subtracts qty only if enough stock remains, otherwise it
	// returns ErrInsufficientStock and changes nothing
	DecrementStock(ctx context.Context, id uint, qty int) error
}

// Carts is the cart repository
type Carts interface {
	GetByUser(ctx context.Context, userID uint) (*model.Cart, error)
	// LockByUser is GetByUser holding a row lock on the cart until the
	// surrounding transaction ends
	LockByUser(ctx context.Context, userID uint) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	// Ensure creates an empty cart for the user unless one already exists
	Ensure(ctx context.Context, userID uint) error
	SaveItem(ctx context.Context, item *model.CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID uint) error
	Clear(ctx context.Context, cartID uint) error
}

// Orders is the order-history repository
type Orders interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id uint) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error
}

// Users is the account repository
type Users interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetMany(ctx context.Context, ids []uint) (map[uint]model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// Store groups the relational repositories and runs units of work atomically
type Store interface {
	Products() Products
	Carts() Carts
	Orders() Orders
	Users() Users
	// Transaction runs fn against a Store whose writes commit together when fn
	// returns nil and are discarded otherwise
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// Questions is the question-thread repository
type Questions interface {
	ThreadFor(ctx context.Context, productID uint) (*model.QuestionThread, error)
	Append(ctx context.Context, productID uint, q model.Question) error
}
