package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json names, not Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Let tags like max=255 see through Nullable[string] to the inner value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if n, ok := field.Interface().(Nullable[string]); ok && n.Value != nil {
			return *n.Value
		}
		return nil
	}, Nullable[string]{})

	return v
}

// Validate checks a decoded payload against its validate struct tags.
func Validate(payload any) error {
	return validate.Struct(payload)
}

// ValidationMessage renders a validation failure as a short client-facing
// message naming the first offending field.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid value for field %q (%s).", fe.Field(), fe.Tag())
	}
	return "Invalid request payload."
}
