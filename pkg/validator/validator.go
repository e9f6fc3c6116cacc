package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags
func Validate(s interface{}) error {
	return validate.Struct(s)
}

