package core

import (
	"fmt"
	"strings"
)

// MissingFieldsError reports every required field a request failed to
// provide. Validation collects all of them before rejecting, so a caller can
// fix a request in one round trip.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// InvalidFieldError reports a field whose value is outside its allowed set.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}
