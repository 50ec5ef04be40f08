package handler

import (
	"net/http"

	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type addToCartRequest struct {
	CoffeeID uint `json:"coffeeId" form:"coffeeId" validate:"required"`
}

type updateCartRequest struct {
	Change int `json:"change" form:"change" validate:"required"`
}

// CartPage renders the signed-in user's cart
func (h *Handler) CartPage(c echo.Context) error {
	cart, err := h.svc.Cart.View(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.pageError(c, err, "Failed to load cart")
	}
	return h.render(c, http.StatusOK, "cart", "Cart", cart)
}

// AddToCart adds one unit of a product
func (h *Handler) AddToCart(c echo.Context) error {
	log := logger.FromContext(c)

	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	count, err := h.svc.Cart.Add(c.Request().Context(), currentUserID(c), req.CoffeeID)
	if err != nil {
		return apiError(c, err, "Failed to add to cart")
	}

	log.Info("Added to cart", zap.Uint("product_id", req.CoffeeID), zap.Int("cart_count", count))
	return c.JSON(http.StatusOK, echo.Map{"cart_count": count})
}

// UpdateCartItem changes a line's quantity by a signed amount
func (h *Handler) UpdateCartItem(c echo.Context) error {
	log := logger.FromContext(c)

	itemID, err := parseID(c)
	if err != nil {
		return apiError(c, err, "Cart item not found")
	}

	var req updateCartRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	count, err := h.svc.Cart.Update(c.Request().Context(), currentUserID(c), itemID, req.Change)
	if err != nil {
		return apiError(c, err, "Failed to update cart")
	}

	log.Info("Cart updated", zap.Uint("item_id", itemID), zap.Int("change", req.Change))
	return c.JSON(http.StatusOK, echo.Map{"cart_count": count})
}

// RemoveCartItem drops a line
func (h *Handler) RemoveCartItem(c echo.Context) error {
	itemID, err := parseID(c)
	if err != nil {
		return apiError(c, err, "Cart item not found")
	}

	count, err := h.svc.Cart.Remove(c.Request().Context(), currentUserID(c), itemID)
	if err != nil {
		return apiError(c, err, "Failed to remove cart item")
	}
	return c.JSON(http.StatusOK, echo.Map{"cart_count": count})
}
