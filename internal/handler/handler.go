package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/middleware"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/service"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/view"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Options carries the settings handlers need beyond the services
type Options struct {
	ServiceName  string
	CookieName   string
	SecureCookie bool
	// Checks are run by the health endpoint, keyed by dependency name
	Checks map[string]func(ctx context.Context) error
}

// Handler serves every storefront route
type Handler struct {
	svc  *service.Services
	opts Options
}

// New creates a Handler
func New(svc *service.Services, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = "token"
	}
	return &Handler{svc: svc, opts: opts}
}

// parseID reads the :id path parameter. Anything but a positive integer is
// rejected as invalid input before any lookup.
func parseID(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: malformed id %q", service.ErrInvalidInput, raw)
	}
	return uint(id), nil
}

// productName returns the :name path parameter decoded
func productName(c echo.Context) string {
	raw := c.Param("name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func currentUserID(c echo.Context) uint {
	id, _ := middleware.GetUserIDFromContext(c)
	return id
}

func statusFor(err error) int {
	var shortage *service.InsufficientStockError
	switch {
	case errors.As(err, &shortage),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrStockChanged):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// apiError maps a service error to a JSON response. Unexpected errors are
// logged and answered with msg only.
func apiError(c echo.Context, err error, msg string) error {
	log := logger.FromContext(c)
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		log.Error(msg, zap.Error(err))
		return c.JSON(status, echo.Map{"error": msg})
	}

	log.Info("Request rejected", zap.Int("status", status), zap.Error(err))
	var shortage *service.InsufficientStockError
	if errors.As(err, &shortage) {
		return c.JSON(status, echo.Map{"error": "insufficient stock", "items": shortage.Items})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func bindError(c echo.Context, err error) error {
	logger.FromContext(c).Warn("Invalid request data", zap.Error(err))
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
}

func validationError(c echo.Context, err error) error {
	logger.FromContext(c).Warn("Request validation failed", zap.Error(err))
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

// viewer loads the header data for a signed-in visitor
func (h *Handler) viewer(c echo.Context) *view.Viewer {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return nil
	}

	ctx := c.Request().Context()
	user, err := h.svc.Users.Profile(ctx, userID)
	if err != nil {
		logger.FromContext(c).Warn("Session user not loaded", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	count, err := h.svc.Cart.Count(ctx, userID)
	if err != nil {
		logger.FromContext(c).Warn("Cart count not loaded", zap.Uint("user_id", userID), zap.Error(err))
	}

	return &view.Viewer{
		ID:        user.ID,
		Name:      user.Name,
		ImgPath:   user.ImgPath,
		IsAdmin:   middleware.IsAdmin(c),
		CartCount: count,
	}
}

func (h *Handler) render(c echo.Context, status int, name, title string, data interface{}) error {
	return c.Render(status, name, view.Page{Title: title, Viewer: h.viewer(c), Data: data})
}

func (h *Handler) renderMessage(c echo.Context, status int, name, title, message string, data interface{}) error {
	return c.Render(status, name, view.Page{Title: title, Viewer: h.viewer(c), Message: message, Data: data})
}

// pageError renders the error page for a service error
func (h *Handler) pageError(c echo.Context, err error, msg string) error {
	status := statusFor(err)
	message := msg
	switch status {
	case http.StatusInternalServerError:
		logger.FromContext(c).Error(msg, zap.Error(err))
	case http.StatusNotFound:
		message = "The page you are looking for does not exist."
	default:
		message = err.Error()
	}
	return h.renderMessage(c, status, "error", http.StatusText(status), message, nil)
}
