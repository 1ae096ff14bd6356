// Package validation wraps the struct-tag validator shared by the driver
// options, run requests and CLI configuration.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Struct validates v against its `validate` struct tags and returns a
// readable error naming the offending fields.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: is required", fe.Field()))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s: must be greater than %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "lt":
			msgs = append(msgs, fmt.Sprintf("%s: must be less than %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
