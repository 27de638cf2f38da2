package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var paymentModes = map[string]bool{
	"CASH":          true,
	"BANK_TRANSFER": true,
	"CHEQUE":        true,
	"CARD":          true,
	"UPI":           true,
}

// SetupValidator configures the request validator: error messages use
// JSON field names, and the paymentmode tag restricts mode fields to the
// supported payment instruments.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("paymentmode", func(fl validator.FieldLevel) bool {
		return paymentModes[fl.Field().String()]
	})
}
