package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	FailedField string
	Tag         string
	Value       any
}

var validate = validator.New()

// Validate checks data against its validate tags.
func Validate(data any) []FieldError {
	var fieldErrors []FieldError

	err := validate.Struct(data)

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	for _, e := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			FailedField: e.Field(),
			Tag:         e.Tag(),
			Value:       e.Value(),
		})
	}

	return fieldErrors
}

// ValidationError turns failed rules into a 400 error naming each field.
func ValidationError(errs []FieldError) *fiber.Error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s needs to implement %s", e.FailedField, e.Tag))
	}

	return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, " and "))
}

// ParseAndValidate decodes the request body into out and validates it.
func ParseAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if errs := Validate(out); len(errs) > 0 {
		return ValidationError(errs)
	}

	return nil
}
