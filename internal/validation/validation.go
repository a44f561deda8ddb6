// Package validation collects input violations so that a caller sees every
// problem with a request at once instead of only the first.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"outofschool/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

// validate returns the shared struct validator. Field names in its errors are
// taken from the `query` tag so they match request parameters.
func validate() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		structValidator = v
	})
	return structValidator
}

// Violations accumulates failed constraints. The zero value is ready to use.
type Violations struct {
	list []errors.Violation
}

// Add records a violation
func (v *Violations) Add(field, value, reason string) {
	v.list = append(v.list, errors.Violation{Field: field, Value: value, Reason: reason})
}

// Addf records a violation with a formatted reason
func (v *Violations) Addf(field, value, format string, args ...interface{}) {
	v.Add(field, value, fmt.Sprintf(format, args...))
}

// Check records a violation when ok is false and reports ok
func (v *Violations) Check(ok bool, field, value, reason string) bool {
	if !ok {
		v.Add(field, value, reason)
	}
	return ok
}

// Struct runs the `validate` tags of s and records one violation per failed field
func (v *Violations) Struct(s interface{}) {
	err := validate().Struct(s)
	if err == nil {
		return
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		v.Add("request", "", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		v.Add(fe.Field(), formatValue(fe.Value()), describe(fe))
	}
}

// Empty reports whether no violation was recorded
func (v *Violations) Empty() bool {
	return len(v.list) == 0
}

// Len returns the number of violations
func (v *Violations) Len() int {
	return len(v.list)
}

// Err returns nil when empty, otherwise a validation error listing every violation
func (v *Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return errors.ValidationViolations(v.list)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid", "uuid4":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

func formatValue(value interface{}) string {
	rv := reflect.ValueOf(value)
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprintf("%v", rv.Interface())
}
