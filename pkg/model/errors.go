package model

import "sort"

// FormErrors maps field names to a single error message. A missing key means
// the field is valid.
type FormErrors map[string]string

// Empty reports whether no field carries an error.
func (e FormErrors) Empty() bool {
	return len(e) == 0
}

// Clone returns an independent copy. A nil receiver yields an empty map.
func (e FormErrors) Clone() FormErrors {
	out := make(FormErrors, len(e))
	for name, msg := range e {
		out[name] = msg
	}
	return out
}

// Fields returns the names carrying errors, sorted.
func (e FormErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Only keeps the entries whose field is in keep.
func (e FormErrors) Only(keep map[string]bool) FormErrors {
	out := make(FormErrors)
	for name, msg := range e {
		if keep[name] {
			out[name] = msg
		}
	}
	return out
}
