package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator plugs go-playground/validator into echo so request structs
// can be checked through c.Validate using their `validate` tags.
type CustomValidator struct {
	validator *validator.Validate
}

// New creates a CustomValidator
func New() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
