package validators

import (
	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/go-playground/validator/v10"
)

const invalidInputs = "Invalid inputs passed, please check your data."

// CustomValidator plugs go-playground/validator into echo.Context.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperr.Wrap(apperr.Validation, invalidInputs, err)
	}
	return nil
}
