// Package validate checks form input before it reaches a store or the API.
// Rules are struct tags; messages are keyed by form field and rule.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("money", isPositiveMoney)
		_ = v.RegisterValidation("count", isCount)
	})
	return v
}

// money: a decimal number greater than zero.
func isPositiveMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil && d.IsPositive()
}

// count: a non-negative integer.
func isCount(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n >= 0
}

// Struct validates form and returns Errors, or nil when it passes.
func Struct(form any, messages map[string]string) error {
	err := engine().Struct(form)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := Errors{}
	for _, fe := range ves {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if m, ok := messages[field+"."+fe.Tag()]; ok {
			out[field] = m
			continue
		}
		out[field] = defaultMessage(fe)
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "eqfield":
		return "Values do not match"
	default:
		return "Invalid value"
	}
}

// From extracts field errors from err, nil if err is not a validation error.
func From(err error) Errors {
	var e Errors
	if errors.As(err, &e) {
		return e
	}
	return nil
}
