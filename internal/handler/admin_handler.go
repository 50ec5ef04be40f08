package handler

import (
	"net/http"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/service"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const lowStockThreshold = 5

// CoffeeRequest defines the structure for product creation requests
type CoffeeRequest struct {
	Name        string           `json:"name" validate:"required"`
	SupplyPrice *decimal.Decimal `json:"supplyPrice" validate:"required"`
	SalePrice   *decimal.Decimal `json:"salePrice" validate:"required"`
	Quantity    int              `json:"quantity" validate:"gte=0"`
	NetWeight   float64          `json:"netWeight" validate:"gt=0"`
	Type        string           `json:"type" validate:"required,oneof=bean ground"`
	Origin      string           `json:"origin" validate:"required"`
	Composition string           `json:"composition" validate:"required,oneof=arabica robusta"`
	ImgPath     string           `json:"imgPath"`
	Info        string           `json:"info"`
}

// CoffeePatchRequest changes only the fields present in the body
type CoffeePatchRequest struct {
	Name        *string          `json:"name"`
	SupplyPrice *decimal.Decimal `json:"supplyPrice"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	Quantity    *int             `json:"quantity"`
	NetWeight   *float64         `json:"netWeight"`
	Type        *string          `json:"type"`
	Origin      *string          `json:"origin"`
	Composition *string          `json:"composition"`
	ImgPath     *string          `json:"imgPath"`
	Info        *string          `json:"info"`
}

// RestockRequest orders more units and optionally reprices
type RestockRequest struct {
	Quantity       int              `json:"quantity" validate:"gte=0"`
	NewSupplyPrice *decimal.Decimal `json:"newSupplyPrice"`
	NewSalePrice   *decimal.Decimal `json:"newSalePrice"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminDashboard is the data of the admin landing page
type AdminDashboard struct {
	Products int
	Orders   int
	LowStock []model.Product
}

func (h *Handler) AdminPage(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.svc.Catalog.List(ctx)
	if err != nil {
		return h.pageError(c, err, "Failed to retrieve products")
	}
	orders, err := h.svc.Orders.ListAll(ctx)
	if err != nil {
		return h.pageError(c, err, "Failed to retrieve orders")
	}

	dashboard := AdminDashboard{Products: len(products), Orders: len(orders)}
	for _, p := range products {
		if p.Stock < lowStockThreshold {
			dashboard.LowStock = append(dashboard.LowStock, p)
		}
	}
	return h.render(c, http.StatusOK, "admin_dashboard", "Administration", dashboard)
}

func (h *Handler) AddCoffeePage(c echo.Context) error {
	return h.render(c, http.StatusOK, "admin_add", "Add coffee", nil)
}

func (h *Handler) EditCoffeesPage(c echo.Context) error {
	products, err := h.svc.Catalog.List(c.Request().Context())
	if err != nil {
		return h.pageError(c, err, "Failed to retrieve products")
	}
	return h.render(c, http.StatusOK, "admin_products", "Edit coffees", products)
}

func (h *Handler) EditCoffeePage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.pageError(c, err, "Product not found")
	}
	product, err := h.svc.Catalog.Get(c.Request().Context(), id)
	if err != nil {
		return h.pageError(c, err, "Failed to retrieve product")
	}
	return h.render(c, http.StatusOK, "admin_edit", "Edit "+product.Name, product)
}

func (h *Handler) OrderCoffeesPage(c echo.Context) error {
	products, err := h.svc.Catalog.List(c.Request().Context())
	if err != nil {
		return h.pageError(c, err, "Failed to retrieve products")
	}
	return h.render(c, http.StatusOK, "admin_stock", "Restock", products)
}

func (h *Handler) AdminOrdersPage(c echo.Context) error {
	orders, err := h.svc.Orders.ListAll(c.Request().Context())
	if err != nil {
		return h.pageError(c, err, "Failed to retrieve orders")
	}
	return h.render(c, http.StatusOK, "admin_orders", "All orders", orders)
}

// AddCoffee handles creating a new product
func (h *Handler) AddCoffee(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new product")

	var req CoffeeRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	product, err := h.svc.Catalog.Create(c.Request().Context(), service.ProductInput{
		Name:        req.Name,
		SupplyPrice: *req.SupplyPrice,
		SalePrice:   *req.SalePrice,
		Stock:       req.Quantity,
		NetWeight:   req.NetWeight,
		Type:        req.Type,
		Origin:      req.Origin,
		Composition: req.Composition,
		ImgPath:     req.ImgPath,
		Info:        req.Info,
	})
	if err != nil {
		return apiError(c, err, "Failed to create product")
	}

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("product_name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// EditCoffee handles updating an existing product
func (h *Handler) EditCoffee(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return apiError(c, err, "Product not found")
	}

	var req CoffeePatchRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	product, err := h.svc.Catalog.Update(c.Request().Context(), id, service.ProductPatch{
		Name:        req.Name,
		SupplyPrice: req.SupplyPrice,
		SalePrice:   req.SalePrice,
		Stock:       req.Quantity,
		NetWeight:   req.NetWeight,
		Type:        req.Type,
		Origin:      req.Origin,
		Composition: req.Composition,
		ImgPath:     req.ImgPath,
		Info:        req.Info,
	})
	if err != nil {
		return apiError(c, err, "Failed to update product")
	}

	log.Info("Product updated successfully", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, product)
}

// DeleteCoffee handles deleting a product
func (h *Handler) DeleteCoffee(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return apiError(c, err, "Product not found")
	}

	if err := h.svc.Catalog.Delete(c.Request().Context(), id); err != nil {
		return apiError(c, err, "Failed to delete product")
	}

	log.Info("Product deleted successfully", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// RestockCoffee adds stock and optionally sets new prices
func (h *Handler) RestockCoffee(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return apiError(c, err, "Product not found")
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	product, err := h.svc.Catalog.Restock(c.Request().Context(), id, service.RestockInput{
		Quantity:       req.Quantity,
		NewSupplyPrice: req.NewSupplyPrice,
		NewSalePrice:   req.NewSalePrice,
	})
	if err != nil {
		return apiError(c, err, "Failed to restock product")
	}

	log.Info("Product restocked", zap.Uint("product_id", id), zap.Int("quantity", req.Quantity))
	return c.JSON(http.StatusOK, product)
}

// UpdateOrderStatus sets an order's fulfilment status
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return apiError(c, err, "Order not found")
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	order, err := h.svc.Orders.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return apiError(c, err, "Failed to update order status")
	}

	log.Info("Order status updated", zap.Uint("order_id", id), zap.String("status", req.Status))
	return c.JSON(http.StatusOK, order)
}
