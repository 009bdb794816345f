package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Roles accepted by the "role" tag.
var Roles = []string{"Doctor", "Patient", "Admin"}

// Register installs the custom rules and reports field names by their json tag.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("role", validateRole); err != nil {
		return fmt.Errorf("failed to register role validator: %w", err)
	}
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		return fmt.Errorf("failed to register notblank validator: %w", err)
	}
	return nil
}

func validateRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, r := range Roles {
		if value == r {
			return true
		}
	}
	return false
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Describe turns validator errors into one readable sentence; other errors
// are returned as their message.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, describeField(e))
	}
	return strings.Join(msgs, "; ")
}

func describeField(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", e.Field(), e.Param())
	case "role":
		return fmt.Sprintf("%s must be one of %s", e.Field(), strings.Join(Roles, ", "))
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
