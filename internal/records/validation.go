package records

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/omniorder/omniorder/internal/shared"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists the fields of a record that failed their checks.
// It matches shared.ErrInvalid.
type ValidationError struct {
	Entity string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return shared.ErrInvalid }

// FieldMessages exposes the per-field messages to response writers.
func (e *ValidationError) FieldMessages() map[string]string { return e.Fields }

// Validate checks the required fields of a dealer, client, product or order.
func Validate(record Record) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", shared.ErrInvalid, err)
	}
	verr := &ValidationError{
		Entity: entityName(record),
		Fields: make(map[string]string, len(fieldErrs)),
	}
	for _, fe := range fieldErrs {
		verr.Fields[fieldPath(fe)] = message(fe)
	}
	return verr
}

func entityName(record Record) string {
	switch record.(type) {
	case Dealer, *Dealer:
		return "dealer"
	case Client, *Client:
		return "client"
	case Product, *Product:
		return "product"
	case Order, *Order:
		return "order"
	}
	return "record"
}

// fieldPath drops the struct name so nested paths read items[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "needs at least " + fe.Param() + " entries"
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	}
	return "is invalid"
}
