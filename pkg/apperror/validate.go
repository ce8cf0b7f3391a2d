package apperror

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// validate reads the same `binding` tags gin uses, so DTOs are checked
// identically whether they arrive over HTTP or are built in code.
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// ValidateStruct checks v against its binding tags and returns a validation error on failure
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return FromValidator(verrs)
	}
	return Internal("validation failed", err)
}

// Binding converts a gin ShouldBind* failure into a validation error
func Binding(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return FromValidator(verrs)
	}
	return Validation("Invalid request body", FieldError{Field: "body", Message: err.Error()})
}
