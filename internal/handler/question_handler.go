package handler

import (
	"net/http"

	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type askRequest struct {
	Question string `json:"question" form:"question" validate:"required"`
}

// AskQuestion adds a question to a product's thread
func (h *Handler) AskQuestion(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return apiError(c, err, "Product not found")
	}

	var req askRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	q, err := h.svc.Questions.Ask(c.Request().Context(), currentUserID(c), id, productName(c), req.Question)
	if err != nil {
		return apiError(c, err, "Failed to save question")
	}

	log.Info("Question asked", zap.Uint("product_id", id), zap.String("question_id", q.ID.Hex()))
	return c.JSON(http.StatusCreated, q)
}
