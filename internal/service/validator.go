package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps JSON field names to human readable messages.
func FieldErrors(err error) (map[string]string, bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}
	out := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		out[fe.Field()] = ValidationErrorMessage(fe)
	}
	return out, true
}

func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return "is invalid"
	}
}
