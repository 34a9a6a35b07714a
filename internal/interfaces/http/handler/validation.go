package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations installs custom binding validators on gin's engine.
// Standard numeric tags do not understand decimal.Decimal, so monetary
// fields get their own tag.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// dgte0 asserts that a decimal field is zero or positive
	return v.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return !d.IsNegative()
	})
}
