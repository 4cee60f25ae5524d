package validation

import (
	"errors"
	"fmt"
)

// ErrUnknownRule is returned when a field declares a rule kind with no
// registered factory.
var ErrUnknownRule = errors.New("validation: unknown rule")

const (
	MessageRequired = "Required"
	MessageEmail    = "Invalid email address"
)

// RequiredError reports an empty value on a field that must be filled.
type RequiredError struct {
	Field   string
	Message string
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormatError reports a value that does not match the expected shape.
type FormatError struct {
	Field   string
	Message string
	Pattern string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RuleError reports any other rule failure (length limits, allowed values).
type RuleError struct {
	Field   string
	Kind    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Message extracts the user-facing text from a rule failure.
func Message(err error) string {
	var required *RequiredError
	if errors.As(err, &required) {
		return required.Message
	}
	var format *FormatError
	if errors.As(err, &format) {
		return format.Message
	}
	var rule *RuleError
	if errors.As(err, &rule) {
		return rule.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Kind names the rule category behind a failure. Used for metric labels.
func Kind(err error) string {
	var required *RequiredError
	if errors.As(err, &required) {
		return "required"
	}
	var format *FormatError
	if errors.As(err, &format) {
		return "format"
	}
	var rule *RuleError
	if errors.As(err, &rule) {
		return rule.Kind
	}
	return "other"
}
