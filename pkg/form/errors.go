package form

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/model"
)

// UnknownFieldError is returned when a caller addresses a field the form does
// not declare.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("form: unknown field %q", e.Field)
}

// ValueTypeError reports a value that cannot be stored in a field's control.
type ValueTypeError = model.TypeError
