package validator

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

// isOrigin checks if a string is a valid CORS origin: either the "*"
// wildcard or an absolute scheme://host[:port] URL without a path.
func isOrigin(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "*" {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.Path == ""
}

// RegisterCustomValidators registers custom validation functions with the validator.
func RegisterCustomValidators(validate *validator.Validate) error {
	return validate.RegisterValidation("origin", isOrigin)
}
