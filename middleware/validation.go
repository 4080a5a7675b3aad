package middleware

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	mediator "github.com/gragra33/blazing-mediator"
)

// Validation creates a request middleware that validates struct requests
// using go-playground/validator tags before the handler runs. Requests
// that are not structs (or pointers to structs) pass through untouched.
//
// A validation failure short-circuits the pipeline; the handler never runs.
func Validation() mediator.Middleware {
	validate := validator.New()

	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if !isStruct(request) {
			return next(ctx, request)
		}
		if err := validate.StructCtx(ctx, request); err != nil {
			return nil, formatValidationError(mediator.TypeName(request), err)
		}
		return next(ctx, request)
	}
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// formatValidationError converts validator errors into readable messages.
func formatValidationError(requestName string, err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Field(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("%s validation failed:\n  %s", requestName, strings.Join(messages, "\n  "))
	}
	return err
}
