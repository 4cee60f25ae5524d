package form

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyPatch applies RFC 6902 operations to the current values. Every
// operation must address a declared field ("/email", "/tags/-"), and so must
// the source of a move or copy. The patched fields, including the source of a
// move, are then stored through SetValues so adapters and coercion apply.
// A removed or moved-out field falls back to its zero value.
func (s *Store) ApplyPatch(patchJSON []byte) error {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return fmt.Errorf("form: decode patch: %w", err)
	}
	if len(patch) == 0 {
		return nil
	}

	targets := make(map[string]struct{}, len(patch))
	for _, op := range patch {
		path, err := op.Path()
		if err != nil {
			return fmt.Errorf("form: patch %s: %w", op.Kind(), err)
		}
		name, err := s.patchField(path)
		if err != nil {
			return err
		}
		if op.Kind() != "test" {
			targets[name] = struct{}{}
		}

		if kind := op.Kind(); kind == "move" || kind == "copy" {
			from, err := op.From()
			if err != nil {
				return fmt.Errorf("form: patch %s: %w", kind, err)
			}
			source, err := s.patchField(from)
			if err != nil {
				return err
			}
			if kind == "move" {
				targets[source] = struct{}{}
			}
		}
	}

	currentJSON, err := s.Values().MarshalJSON()
	if err != nil {
		return fmt.Errorf("form: encode values: %w", err)
	}
	modifiedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return fmt.Errorf("form: apply patch: %w", err)
	}
	if len(targets) == 0 {
		return nil
	}

	var doc map[string]any
	if err := sonic.Unmarshal(modifiedJSON, &doc); err != nil {
		return fmt.Errorf("form: decode patched values: %w", err)
	}

	updates := make(map[string]any, len(targets))
	for name := range targets {
		updates[name] = doc[name]
	}
	return s.SetValues(updates)
}

// Changes returns an RFC 7396 merge patch from the defaults to the current
// values. An unchanged form yields "{}".
func (s *Store) Changes() ([]byte, error) {
	s.mu.Lock()
	initial, current := s.initial, s.values
	s.mu.Unlock()

	initialJSON, err := initial.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("form: encode defaults: %w", err)
	}
	currentJSON, err := current.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("form: encode values: %w", err)
	}
	merge, err := jsonpatch.CreateMergePatch(initialJSON, currentJSON)
	if err != nil {
		return nil, fmt.Errorf("form: merge patch: %w", err)
	}
	return merge, nil
}

// patchField resolves a JSON pointer to a declared field name.
func (s *Store) patchField(path string) (string, error) {
	name, err := fieldFromPointer(path)
	if err != nil {
		return "", err
	}
	if _, ok := s.fields[name]; !ok {
		return "", s.unknownField(name)
	}
	return name, nil
}

func fieldFromPointer(path string) (string, error) {
	if !strings.HasPrefix(path, "/") || len(path) < 2 {
		return "", fmt.Errorf("form: patch path %q does not address a field", path)
	}
	token := path[1:]
	if idx := strings.IndexByte(token, '/'); idx >= 0 {
		token = token[:idx]
	}
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token, nil
}
