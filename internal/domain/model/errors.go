package model

import (
	"fmt"
	"strings"
)

// InvalidInputError reports a required field that is missing or non-positive, out of its
// documented bounds, or holding an unrecognized categorical value.
type InvalidInputError struct {
	Value  any
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %s (got %v)", e.Field, e.Reason, e.Value)
}

func invalid(field string, value any, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedModelError reports a model that consults factors the record does not carry.
// The engine never defaults missing factors.
type UnsupportedModelError struct {
	ModelID string
	Missing []Factor
}

func (e *UnsupportedModelError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("model %s is not supported by this record: missing %s", e.ModelID, strings.Join(names, ", "))
}
