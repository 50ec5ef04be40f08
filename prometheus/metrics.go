package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_auth_attempts_total",
			Help: "Total number of gated requests",
		},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_auth_errors_total",
			Help: "Total number of rejected gated requests",
		},
		[]string{"type"}, // missing_token, session_expired, invalid_token, forbidden
	)

	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_login_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// Database operation metrics
	DbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Order metrics
	OrdersPlacedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders placed",
		},
	)

	OrderRejectedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_rejected_total",
			Help: "Total number of order placements rejected",
		},
		[]string{"reason"},
	)

	// Cart metrics
	CartOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Total number of cart operations",
		},
		[]string{"operation"},
	)

	// Product metrics
	ProductOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_product_operations_total",
			Help: "Total number of admin product operations",
		},
		[]string{"operation"},
	)

	ProductInventoryGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_product_inventory",
			Help: "Current inventory level for products",
		},
		[]string{"product_id"},
	)

	ProductViewsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_product_views_total",
			Help: "Total number of product detail views",
		},
		[]string{"product_id"},
	)

	QuestionsAskedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_questions_asked_total",
			Help: "Total number of product questions asked",
		},
	)
)

// InitMetrics registers every collector with the default registry
func InitMetrics() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		AuthAttemptsCounter,
		AuthErrorCounter,
		LoginCounter,
		DbOperationDuration,
		OrdersPlacedCounter,
		OrderRejectedCounter,
		CartOperationsCounter,
		ProductOperationsCounter,
		ProductInventoryGauge,
		ProductViewsCounter,
		QuestionsAskedCounter,
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordAuthError increments the counter for a rejected gated request
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordLogin increments the login counter for the given outcome
func RecordLogin(result string) {
	LoginCounter.WithLabelValues(result).Inc()
}

// RecordOrderRejected increments the counter for rejected order placements
func RecordOrderRejected(reason string) {
	OrderRejectedCounter.WithLabelValues(reason).Inc()
}

// RecordCartOperation increments the counter for cart operations
func RecordCartOperation(operation string) {
	CartOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordProductOperation increments the counter for admin product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateProductInventory updates the gauge for product inventory
func UpdateProductInventory(productID uint, count int) {
	ProductInventoryGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10)).Set(float64(count))
}

// RecordProductView increments the counter for product views
func RecordProductView(productID uint) {
	ProductViewsCounter.WithLabelValues(strconv.FormatUint(uint64(productID), 10)).Inc()
}

// MetricsMiddleware records request count and duration per route
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
			HttpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
