package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint
func (h *Handler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := echo.Map{}
	for name, check := range h.opts.Checks {
		if err := check(ctx); err != nil {
			logger.FromContext(c).Error("Health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	health := "healthy"
	if status != http.StatusOK {
		health = "unhealthy"
	}
	return c.JSON(status, echo.Map{
		"status":  health,
		"service": h.opts.ServiceName,
		"checks":  checks,
	})
}
