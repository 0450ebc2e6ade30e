package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/go-mailer/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable is implemented by request payload types.
//
// Validate returns validator.ValidationErrors for tag failures or
// CustomValidationErrors for rules tags cannot express.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single field failure not expressible as a tag.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors satisfies error so Validate can return it.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds the request into payload (which must be a pointer)
// and validates it.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// bindMessage extracts the client-facing message of a bind error.
func bindMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return msg
		}
	}
	return "Invalid request body"
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "", Error: err.Error()}}
	}

	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: messageFor(fe, field),
		})
	}

	return "Validation failed", fieldErrors
}

// messageFor maps a validator tag to a human-readable message.
func messageFor(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "dive":
		return "some items are invalid"
	}

	if fe.Param() != "" {
		return fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: %s", field, fe.Tag())
}
