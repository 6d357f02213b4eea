package dto

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"hwcatalog/internal/domain/hardware"
)

var registerOnce sync.Once

// RegisterValidators adds the catalog rules to gin's validator engine.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("hwtype", validHardwareType); err != nil {
			return
		}
		err = v.RegisterValidation("nonnegative", nonNegativeDecimal)
	})
	return err
}

func validHardwareType(fl validator.FieldLevel) bool {
	return hardware.Type(fl.Field().String()).IsValid()
}

func nonNegativeDecimal(fl validator.FieldLevel) bool {
	switch d := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return !d.IsNegative()
	case *decimal.Decimal:
		return d == nil || !d.IsNegative()
	}
	return false
}
