package handler

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator checks request DTOs with `validate` struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator returns a validator for echo.Echo.Validator.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
