package middleware

import (
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware adds a unique request ID to each request, keeping one
// supplied by an upstream proxy
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(echo.HeaderXRequestID, requestID)
		}
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)

		c.Set("request_id", requestID)

		// Add request ID to logger context
		logger.Attach(c, logger.GetLogger().With(zap.String("request_id", requestID)))

		return next(c)
	}
}
