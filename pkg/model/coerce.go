package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeError reports a value that cannot be stored in a field's control kind.
type TypeError struct {
	Field string
	Want  ValueKind
	Got   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("model: field %q expects a %s value, got %s", e.Field, e.Want, e.Got)
}

// Coerce converts raw into the value kind of the field's control. A nil raw
// value yields the zero value for the kind. Toggle fields accept strings
// parseable by strconv.ParseBool; set fields accept []string or []any of
// strings and drop duplicates keeping the first occurrence.
func Coerce(field Field, raw any) (any, error) {
	kind := field.Control.ValueKind()
	if raw == nil {
		return zeroValue(kind), nil
	}

	switch kind {
	case ValueBool:
		switch typed := raw.(type) {
		case bool:
			return typed, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
			if err != nil {
				return nil, &TypeError{Field: field.Name, Want: kind, Got: strconv.Quote(typed)}
			}
			return parsed, nil
		}
	case ValueStringSet:
		switch typed := raw.(type) {
		case []string:
			return dedupe(typed), nil
		case []any:
			items := make([]string, 0, len(typed))
			for _, item := range typed {
				s, ok := item.(string)
				if !ok {
					return nil, &TypeError{Field: field.Name, Want: kind, Got: fmt.Sprintf("[]any containing %T", item)}
				}
				items = append(items, s)
			}
			return dedupe(items), nil
		}
	default:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	}
	return nil, &TypeError{Field: field.Name, Want: kind, Got: fmt.Sprintf("%T", raw)}
}

func zeroValue(kind ValueKind) any {
	switch kind {
	case ValueBool:
		return false
	case ValueStringSet:
		return []string{}
	default:
		return ""
	}
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
