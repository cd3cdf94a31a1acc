package domain

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance used for struct validation.
// Closed-set checks are registered against the IsValid methods of the
// vocabulary types so struct tags can never drift from the canonical sets.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report violations using JSON field names so diagnostics match the
	// wire format the generator was asked to produce.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "severity", func(fl validator.FieldLevel) bool {
		return Severity(fl.Field().String()).IsValid()
	})
	mustRegister(v, "deviation_kind", func(fl validator.FieldLevel) bool {
		return DeviationKind(fl.Field().String()).IsValid()
	})
	mustRegister(v, "risk_category", func(fl validator.FieldLevel) bool {
		return RiskCategory(fl.Field().String()).IsValid()
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}
