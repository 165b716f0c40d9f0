// Package validation validates request bodies with struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their json name and
// understands the "password" tag.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// only fails on registration, which a fixed tag never does
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return v
}

// Message turns a validation failure into one client-facing sentence.
func Message(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", fe.Field()))
		case "password":
			msgs = append(msgs, fmt.Sprintf(
				"field %s must be %d-%d characters and contain a special character",
				fe.Field(), MinPasswordLength, MaxPasswordLength))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
