package handler

import (
	"net/http"

	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PlaceOrder turns the cart into an order
func (h *Handler) PlaceOrder(c echo.Context) error {
	log := logger.FromContext(c)

	order, err := h.svc.Orders.Place(c.Request().Context(), currentUserID(c))
	if err != nil {
		return apiError(c, err, "Failed to place order")
	}

	log.Info("Order created", zap.Uint("order_id", order.ID))
	return c.JSON(http.StatusCreated, order)
}

// OrdersPage renders the user's order history
func (h *Handler) OrdersPage(c echo.Context) error {
	orders, err := h.svc.Orders.ListByUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.pageError(c, err, "Failed to load orders")
	}
	return h.render(c, http.StatusOK, "orders", "Orders", orders)
}

// ListMyOrders returns the user's order history as JSON
func (h *Handler) ListMyOrders(c echo.Context) error {
	orders, err := h.svc.Orders.ListByUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return apiError(c, err, "Failed to retrieve orders")
	}
	return c.JSON(http.StatusOK, orders)
}
