package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/tonscope/goapi/domain"
)

// IsValidAddress returns is an address valid or not. Both raw
// (workchain:hex) and base64 friendly forms are accepted.
func IsValidAddress(address string) bool {
	_, err := domain.ParseAddress(address)
	return err == nil
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	_ = v.RegisterValidation("tonaddress", func(fl validator.FieldLevel) bool {
		return IsValidAddress(fl.Field().String())
	})
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
