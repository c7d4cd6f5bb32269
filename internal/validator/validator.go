// Package validator holds the process-wide go-playground validator and turns
// its field errors into messages that can be shown to API clients.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is re-exported so callers can render messages without importing
// the underlying library.
type FieldError = validator.FieldError

// MessageFunc renders a single failed rule.
type MessageFunc func(fe FieldError) string

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Messages name fields by their `label` tag, falling back to the Go name.
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
}

// RegisterStringRule adds a rule that accepts a string field when valid returns true.
func RegisterStringRule(tag string, valid func(string) bool) error {
	return Validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	})
}

// Check validates s and returns one message per failed field in declaration
// order. Fields listed in skip are not reported. A nil render uses
// DefaultMessage.
func Check(s any, render MessageFunc, skip ...string) []string {
	return Messages(Validate.Struct(s), render, skip...)
}

// Messages renders the field errors carried by err, which may be wrapped.
// Any other error becomes a single message.
func Messages(err error, render MessageFunc, skip ...string) []string {
	if err == nil {
		return nil
	}
	if render == nil {
		render = DefaultMessage
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if contains(skip, fe.Field()) {
			continue
		}
		msgs = append(msgs, render(fe))
	}
	return msgs
}

// DefaultMessage renders the common rules in plain English.
func DefaultMessage(fe FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot be more than %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s cannot be more than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
