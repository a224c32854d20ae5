package dto

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators installs the decimal-aware binding tags on gin's validator:
//
//	dpos    the decimal is strictly positive
//	dnonneg the decimal is zero or positive
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return registerDecimalValidators(v)
}

func registerDecimalValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("dpos", decimalCheck(decimal.Decimal.IsPositive)); err != nil {
		return err
	}
	return v.RegisterValidation("dnonneg", decimalCheck(func(d decimal.Decimal) bool { return !d.IsNegative() }))
}

func decimalCheck(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && ok(d)
	}
}
