package handler

import (
	"net/http"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/service"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CatalogPage is the data of the catalog template
type CatalogPage struct {
	Heading  string
	Products []model.Product
	Origins  []string
}

func (h *Handler) catalogPage(c echo.Context, heading string, products []model.Product) error {
	origins, err := h.svc.Catalog.Origins(c.Request().Context())
	if err != nil {
		return h.pageError(c, err, "Failed to load origins")
	}
	return h.render(c, http.StatusOK, "catalog", "Catalog", CatalogPage{
		Heading:  heading,
		Products: products,
		Origins:  origins,
	})
}

// Catalog renders every product
func (h *Handler) Catalog(c echo.Context) error {
	log := logger.FromContext(c)

	products, err := h.svc.Catalog.List(c.Request().Context())
	if err != nil {
		return h.pageError(c, err, "Failed to retrieve products")
	}

	log.Debug("Catalog listed", zap.Int("count", len(products)))
	return h.catalogPage(c, "Our coffee", products)
}

// Search renders products whose name contains ?text=
func (h *Handler) Search(c echo.Context) error {
	text := c.QueryParam("text")
	if text == "" {
		return c.Redirect(http.StatusFound, "/catalog")
	}

	products, err := h.svc.Catalog.Search(c.Request().Context(), text)
	if err != nil {
		return h.pageError(c, err, "Failed to search products")
	}

	logger.FromContext(c).Info("Catalog searched", zap.String("text", text), zap.Int("count", len(products)))
	return h.catalogPage(c, "Results for \""+text+"\"", products)
}

// Filters renders products matching every given filter
func (h *Handler) Filters(c echo.Context) error {
	filter, err := service.ParseFilter(c.QueryParams())
	if err != nil {
		return h.pageError(c, err, "Invalid filter")
	}

	products, err := h.svc.Catalog.Filter(c.Request().Context(), filter)
	if err != nil {
		return h.pageError(c, err, "Failed to filter products")
	}
	return h.catalogPage(c, "Filtered coffee", products)
}

// ProductDetail renders one product with its questions. The name in the URL
// must match the product.
func (h *Handler) ProductDetail(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return h.pageError(c, err, "Product not found")
	}

	detail, err := h.svc.Catalog.Detail(c.Request().Context(), id, productName(c))
	if err != nil {
		return h.pageError(c, err, "Failed to load product")
	}

	log.Info("Product viewed", zap.Uint("product_id", id), zap.Int("popularity", detail.Product.Popularity))
	return h.render(c, http.StatusOK, "product", detail.Product.Name, detail)
}

// ListCoffees returns the catalog as JSON, honoring the catalog filters
func (h *Handler) ListCoffees(c echo.Context) error {
	log := logger.FromContext(c)

	filter, err := service.ParseFilter(c.QueryParams())
	if err != nil {
		return apiError(c, err, "Invalid filter")
	}

	products, err := h.svc.Catalog.Filter(c.Request().Context(), filter)
	if err != nil {
		return apiError(c, err, "Failed to retrieve products")
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetCoffee returns one product as JSON
func (h *Handler) GetCoffee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return apiError(c, err, "Product not found")
	}

	product, err := h.svc.Catalog.Get(c.Request().Context(), id)
	if err != nil {
		return apiError(c, err, "Failed to retrieve product")
	}
	return c.JSON(http.StatusOK, product)
}
