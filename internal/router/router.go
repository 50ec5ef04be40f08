// Package router builds the echo instance and registers every route
package router

import (
	"net/http"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/handler"
	mid "github.com/4lovek5346534/git-Supreme-Cofe/internal/middleware"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/view"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/jwtutil"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/validator"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// New creates the echo instance with renderer, validator, middleware and routes
func New(h *handler.Handler, gate *mid.Gate, metricsPath string) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	e.GET(metricsPath, echo.WrapHandler(prometheus.GetPrometheusHandler()))

	Setup(e, h, gate)
	return e, nil
}

// Setup is the single entry point that wires up the public, user and admin route groups
func Setup(e *echo.Echo, h *handler.Handler, gate *mid.Gate) {
	setupPublicRoutes(e, h, gate)
	setupUserRoutes(e, h, gate)
	setupAdminRoutes(e, h, gate)
}

func setupPublicRoutes(e *echo.Echo, h *handler.Handler, gate *mid.Gate) {
	e.GET("/health", h.HealthCheck)
	e.StaticFS("/static", view.StaticFS())

	// pages show the header of a signed-in visitor when a session is present
	optional := gate.OptionalAuth()
	e.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusFound, "/catalog") })
	e.GET("/signup", h.SignupPage, optional)
	e.GET("/login", h.LoginPage, optional)
	e.GET("/catalog", h.Catalog, optional)
	e.GET("/catalog/search", h.Search, optional)
	e.GET("/catalog/filters", h.Filters, optional)
	e.GET("/catalog/:name/:id", h.ProductDetail, optional)

	e.POST("/api/users/signup", h.Signup)
	e.POST("/api/users/login", h.Login)
	e.POST("/logout", h.Logout)

	e.GET("/api/coffees", h.ListCoffees)
	e.GET("/api/coffees/:id", h.GetCoffee)
}

func setupUserRoutes(e *echo.Echo, h *handler.Handler, gate *mid.Gate) {
	page := gate.RequirePage(jwtutil.RoleUser, jwtutil.RoleAdmin)
	api := gate.RequireAPI(jwtutil.RoleUser, jwtutil.RoleAdmin)

	// pages
	e.GET("/catalog/cart", h.CartPage, page)
	e.GET("/orders", h.OrdersPage, page)
	e.GET("/profile", h.ProfilePage, page)
	e.POST("/profile/update", h.UpdateProfile, page)

	// cart
	e.POST("/cart/add", h.AddToCart, api)
	e.POST("/cart/update/:id", h.UpdateCartItem, api)
	e.DELETE("/cart/items/:id", h.RemoveCartItem, api)

	// orders
	e.POST("/orders", h.PlaceOrder, api)
	e.GET("/api/orders", h.ListMyOrders, api)

	// questions
	e.POST("/catalog/:name/:id/ask", h.AskQuestion, api)
}

func setupAdminRoutes(e *echo.Echo, h *handler.Handler, gate *mid.Gate) {
	page := gate.RequirePage(jwtutil.RoleAdmin)
	api := gate.RequireAPI(jwtutil.RoleAdmin)

	// pages
	e.GET("/adminPage", h.AdminPage, page)
	e.GET("/addCoffee", h.AddCoffeePage, page)
	e.GET("/editCoffees", h.EditCoffeesPage, page)
	e.GET("/editCoffees/edit/:id", h.EditCoffeePage, page)
	e.GET("/orderCoffees", h.OrderCoffeesPage, page)
	e.GET("/admin/orders", h.AdminOrdersPage, page)

	// product management
	e.POST("/addCoffee", h.AddCoffee, api)
	e.PUT("/editCoffees/edit/:id", h.EditCoffee, api)
	e.DELETE("/editCoffees/delete/:id", h.DeleteCoffee, api)
	e.PUT("/orderCoffees/:id", h.RestockCoffee, api)

	// order management
	e.PUT("/admin/orders/:id/status", h.UpdateOrderStatus, api)
}
