package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/bestsellers-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate returns nil, errs.FieldErrors for rule failures, or
// validator.ValidationErrors when the payload relies on struct tags.
type Validatable interface {
	Validate() error
}

// Binder is implemented by payloads that read the request themselves
// instead of going through echo's struct binder. Untyped parameter sets
// need this: echo would coerce every value before the rules could see
// its original type.
type Binder interface {
	Bind(c echo.Context) error
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. payload.Bind(c) when payload is a Binder, c.Bind(payload) otherwise.
//  2. payload.Validate() applies validation rules.
//  3. Returns *errs.HTTPError (422) with every field error if validation fails.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := bind(c, payload); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}

		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			if msg, ok := echoErr.Message.(string); ok {
				return errs.NewBadRequestError(msg, false)
			}
		}

		return errs.NewBadRequestError("The request could not be parsed.", false)
	}

	if fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewValidationError(fieldErrors)
	}

	return nil
}

func bind(c echo.Context, payload Validatable) error {
	if b, ok := payload.(Binder); ok {
		return b.Bind(c)
	}
	return c.Bind(payload)
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) errs.FieldErrors {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return nil
}

func extractValidationError(err error) errs.FieldErrors {
	var fieldErrors errs.FieldErrors
	if errors.As(err, &fieldErrors) {
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errs.FieldErrors{"request": {err.Error()}}
	}

	fieldErrors = errs.FieldErrors{}

	// Convert validator.ValidationErrors into the same phrasing the
	// hand-written rules use.
	for _, err := range validationErrors {
		field := strings.ToLower(err.Field())
		var msg string

		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("The %s field is required.", field)
		case "min":
			msg = MinMessage(field, err.Param())
		case "max":
			msg = fmt.Sprintf("The %s field must not be greater than %s.", field, err.Param())
		case "number", "numeric":
			msg = fmt.Sprintf("The %s field must be a number.", field)
		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("The %s field failed the %s:%s rule.", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("The %s field failed the %s rule.", field, err.Tag())
			}
		}

		fieldErrors.Add(field, msg)
	}

	return fieldErrors
}
