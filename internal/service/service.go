// Package service holds the storefront use cases. Every operation works
// against the store interfaces and reports failures with the errors in
// errors.go so the HTTP layer can map them to status codes.
package service

import (
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"
)

// Services bundles every use case the handlers need
type Services struct {
	Catalog   *CatalogService
	Cart      *CartService
	Orders    *OrderService
	Users     *UserService
	Questions *QuestionService
}

// New wires the services over the given stores
func New(st store.Store, questions store.Questions) *Services {
	qs := NewQuestionService(st, questions)
	return &Services{
		Catalog:   NewCatalogService(st, qs),
		Cart:      NewCartService(st),
		Orders:    NewOrderService(st),
		Users:     NewUserService(st),
		Questions: qs,
	}
}
