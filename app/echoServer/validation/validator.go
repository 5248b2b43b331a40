package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo.Validator. Errors are
// returned unwrapped so handlers can report them per field.
type Validator struct {
	v *validator.Validate
}

func New(v *validator.Validate) *Validator {
	if v == nil {
		v = validator.New()
	}
	return &Validator{v: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
