package customer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// rules holds one validator tag per column, derived from the catalogue
var rules = func() map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.rule()
	}
	return m
}()

// rule renders the field's domain as a validator tag
func (f Field) rule() string {
	switch f.Kind {
	case KindEnum, KindFlag:
		quoted := make([]string, len(f.Options))
		for i, o := range f.Options {
			quoted[i] = "'" + o + "'"
		}
		return "oneof=" + strings.Join(quoted, " ")
	case KindInt:
		return fmt.Sprintf("min=%g,max=%g", f.Min, f.Max)
	case KindFloat:
		if f.Bounded() {
			return fmt.Sprintf("gte=%g,lte=%g", f.Min, f.Max)
		}
		return fmt.Sprintf("gte=%g", f.Min)
	}
	return ""
}

// check validates a typed value against the field's domain
func (f Field) check(value any, raw string) error {
	err := validate.Var(value, rules[f.Name])
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &FieldError{Field: f.Name, Value: raw, Reason: err.Error()}
	}

	reason := fmt.Sprintf("failed %s=%s", verrs[0].Tag(), verrs[0].Param())
	switch verrs[0].Tag() {
	case "oneof":
		reason = "not one of the allowed options"
		if f.Kind == KindFlag {
			reason = "must be 0 or 1"
		}
	case "min", "max", "lte":
		reason = fmt.Sprintf("must be between %g and %g", f.Min, f.Max)
	case "gte":
		reason = fmt.Sprintf("must be at least %g", f.Min)
	}
	return &FieldError{Field: f.Name, Value: raw, Reason: reason}
}
