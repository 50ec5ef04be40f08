package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrStockChanged means a conditional decrement lost to a concurrent
	// writer after the stock check passed
	ErrStockChanged = errors.New("stock changed while placing order")
)

// Shortage describes one product the cart asks more of than is available
type Shortage struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// InsufficientStockError rejects an order and lists every shortfall
type InsufficientStockError struct {
	Items []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, s := range e.Items {
		parts = append(parts, fmt.Sprintf("%s (available %d, requested %d)", s.Name, s.Available, s.Requested))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
