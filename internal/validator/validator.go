package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New creates a validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report struct fields by their json names so validation errors line up
	// with the request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// "notblank" rejects whitespace-only strings. Used for codes, names and
	// plate numbers that must have meaningful content.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	return v
}

// Errors flattens a validator error into a field -> message map suitable for
// a 422 response body. Unknown errors map to a single "request" entry.
func Errors(err error) map[string]string {
	out := make(map[string]string)

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["request"] = "invalid request"
		return out
	}

	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue // keep the first failure per field
		}
		out[field] = message(field, fe)
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "email":
		return field + " must be a valid email address"
	case "min", "gte":
		return field + " must be at least " + fe.Param()
	case "max", "lte":
		return field + " must be at most " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return field + " is invalid"
	}
}
