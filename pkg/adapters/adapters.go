// Package adapters holds the per-field input transforms applied before a value
// reaches the form store. Adapters are total and side-effect free: a value the
// adapter does not understand passes through unchanged.
package adapters

import "strings"

const (
	NameUppercase = "uppercase"
	NameLowercase = "lowercase"
	NameTrim      = "trim"
)

// Adapter transforms raw input into the value stored for a field.
type Adapter interface {
	Transform(raw any) any
}

// Func adapts a plain function into an Adapter.
type Func func(raw any) any

// Transform calls the underlying function.
func (fn Func) Transform(raw any) any {
	return fn(raw)
}

// Uppercase converts string input to upper case. Empty input stays empty.
func Uppercase() Adapter {
	return stringAdapter(strings.ToUpper)
}

// Lowercase converts string input to lower case.
func Lowercase() Adapter {
	return stringAdapter(strings.ToLower)
}

// Trim strips leading and trailing whitespace from string input.
func Trim() Adapter {
	return stringAdapter(strings.TrimSpace)
}

func stringAdapter(fn func(string) string) Adapter {
	return Func(func(raw any) any {
		s, ok := raw.(string)
		if !ok {
			return raw
		}
		return fn(s)
	})
}

// Chain applies adapters left to right. Nil entries are skipped.
func Chain(list ...Adapter) Adapter {
	steps := make([]Adapter, 0, len(list))
	for _, adapter := range list {
		if adapter != nil {
			steps = append(steps, adapter)
		}
	}
	return Func(func(raw any) any {
		value := raw
		for _, step := range steps {
			value = step.Transform(value)
		}
		return value
	})
}
