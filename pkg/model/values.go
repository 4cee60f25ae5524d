package model

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/bytedance/sonic"
)

// Values is an immutable snapshot of field values keyed by name. Key order
// follows field declaration order. Accessors return copies, so a snapshot can
// be handed to observers and submit actions without aliasing store state.
type Values struct {
	names []string
	data  map[string]any
}

// NewValues copies the provided data for the listed names. Names missing from
// data are left out of the snapshot.
func NewValues(names []string, data map[string]any) Values {
	out := Values{
		names: make([]string, 0, len(names)),
		data:  make(map[string]any, len(names)),
	}
	for _, name := range names {
		value, ok := data[name]
		if !ok {
			continue
		}
		if _, dup := out.data[name]; dup {
			continue
		}
		out.names = append(out.names, name)
		out.data[name] = cloneValue(value)
	}
	return out
}

// Len returns the number of fields in the snapshot.
func (v Values) Len() int {
	return len(v.names)
}

// Names returns the field names in declaration order.
func (v Values) Names() []string {
	return append([]string(nil), v.names...)
}

// Has reports whether the snapshot holds the named field.
func (v Values) Has(name string) bool {
	_, ok := v.data[name]
	return ok
}

// Get returns a copy of the named value.
func (v Values) Get(name string) (any, bool) {
	value, ok := v.data[name]
	if !ok {
		return nil, false
	}
	return cloneValue(value), true
}

// String returns a string value, or "" when absent or of another kind.
func (v Values) String(name string) string {
	s, _ := v.data[name].(string)
	return s
}

// Bool returns a bool value, or false when absent or of another kind.
func (v Values) Bool(name string) bool {
	b, _ := v.data[name].(bool)
	return b
}

// Strings returns a copy of a set value.
func (v Values) Strings(name string) []string {
	set, _ := v.data[name].([]string)
	return append([]string{}, set...)
}

// Map returns a deep copy of the snapshot as a plain map.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v.data))
	for name, value := range v.data {
		out[name] = cloneValue(value)
	}
	return out
}

// With returns a new snapshot with name set to value. The receiver is left
// untouched; unknown names are appended.
func (v Values) With(name string, value any) Values {
	out := Values{
		names: append([]string(nil), v.names...),
		data:  make(map[string]any, len(v.data)+1),
	}
	for key, existing := range v.data {
		out.data[key] = existing
	}
	if _, ok := out.data[name]; !ok {
		out.names = append(out.names, name)
	}
	out.data[name] = cloneValue(value)
	return out
}

// Equal compares names, order and values.
func (v Values) Equal(other Values) bool {
	if len(v.names) != len(other.names) {
		return false
	}
	for idx, name := range v.names {
		if other.names[idx] != name {
			return false
		}
		if !reflect.DeepEqual(v.data[name], other.data[name]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the snapshot as an object whose keys keep declaration
// order.
func (v Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, name := range v.names {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := sonic.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("model: encode key %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		encoded, err := sonic.Marshal(v.data[name])
		if err != nil {
			return nil, fmt.Errorf("model: encode %q: %w", name, err)
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case []string:
		return append([]string{}, typed...)
	default:
		return typed
	}
}
