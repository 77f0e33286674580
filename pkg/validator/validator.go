package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) ([]ValidationError, bool) {
	err := v.validate.Struct(i)
	if err == nil {
		return nil, true
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ValidationError{{Code: "INVALID", Message: err.Error()}}, false
	}

	errs := make([]ValidationError, 0, len(validationErrors))
	for _, err := range validationErrors {
		errs = append(errs, ValidationError{
			Field:   err.Field(),
			Code:    strings.ToUpper(err.Tag()),
			Message: message(err),
		})
	}

	return errs, false
}

// Err is Validate folded into a single error, for callers that do not render field lists.
func (v *Validator) Err(i any) error {
	validationErrors, ok := v.Validate(i)
	if ok {
		return nil
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, e.Message)
	}

	return errors.New(strings.Join(msgs, "; "))
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "len":
		return fmt.Sprintf("%s must have length %s", err.Field(), err.Param())
	case "alphanum":
		return fmt.Sprintf("%s must be alphanumeric", err.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", err.Field(), err.Tag())
	}
}
