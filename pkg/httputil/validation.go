package httputil

import (
	"github.com/go-playground/validator/v10"

	"github.com/netanyamuni/incident-backend/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates a struct using go-playground/validator and converts
// failures into the per-field {field, message, type} detail list.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.BadRequest("invalid request body")
		}

		details := make([]errors.FieldError, 0, len(validationErrors))
		for _, e := range validationErrors {
			details = append(details, errors.FieldError{
				Field:   e.Namespace(),
				Message: formatValidationError(e),
				Type:    e.Tag(),
			})
		}

		return errors.Validation(details)
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "invalid value"
	}
}
