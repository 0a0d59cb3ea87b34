package app

import (
	"errors"
	"strings"

	"isletmenum/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// ValidateStruct runs struct tag validation and reports failures as a
// validation error keyed by field name.
func ValidateStruct(validate *validator.Validate, code string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]string, len(ve))
		for _, fe := range ve {
			details[lowerFirst(fe.Field())] = fe.Tag()
		}
		return apperror.Validation(code, "Validation failed for the request", details)
	}

	return apperror.Internal(code, "An unexpected validation error occurred", nil).WithCause(err)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
