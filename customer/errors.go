package customer

import (
	"fmt"
	"strings"
)

// FieldError reports a single value outside its field's domain
type FieldError struct {
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s (got %q)", e.Field, e.Reason, e.Value)
}

// ValidationError collects every field error found in one record
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "invalid customer record: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, value, reason string) {
	e.Fields = append(e.Fields, &FieldError{Field: field, Value: value, Reason: reason})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
