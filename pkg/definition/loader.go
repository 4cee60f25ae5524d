// Package definition loads form definitions from JSON or YAML documents and
// checks them before they reach the store.
package definition

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// ErrInvalidDefinition marks definitions that parse but fail structural
// checks.
var ErrInvalidDefinition = errors.New("definition: invalid form")

// Option customises loading.
type Option func(*loader)

type loader struct {
	decorators []model.Decorator
}

// WithDecorators appends decorators that run after the built-in control
// inference.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(l *loader) {
		for _, decorator := range decorators {
			if decorator != nil {
				l.decorators = append(l.decorators, decorator)
			}
		}
	}
}

// Load parses a single form definition. JSON is tried first, then YAML. A
// missing id defaults to the source file name without extension.
func Load(data []byte, source string, opts ...Option) (model.FormModel, error) {
	l := &loader{decorators: []model.Decorator{widgets.NewRegistry()}}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	def, err := parseDocument(data, source)
	if err != nil {
		return model.FormModel{}, err
	}
	if strings.TrimSpace(def.ID) == "" {
		def.ID = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	for _, decorator := range l.decorators {
		if err := decorator.Decorate(&def); err != nil {
			return model.FormModel{}, fmt.Errorf("definition: decorate %s: %w", source, err)
		}
	}
	if err := check(def, source); err != nil {
		return model.FormModel{}, err
	}
	return def, nil
}

// LoadFile reads and parses a definition from disk.
func LoadFile(path string, opts ...Option) (model.FormModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Load(data, path, opts...)
}

// Catalog holds the forms loaded from a filesystem, keyed by id.
type Catalog struct {
	forms map[string]model.FormModel
}

// LoadFS walks fsys and loads every JSON/YAML file as a form definition. A nil
// filesystem yields an empty catalog.
func LoadFS(fsys fs.FS, opts ...Option) (*Catalog, error) {
	catalog := &Catalog{forms: make(map[string]model.FormModel)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		def, err := Load(data, path, opts...)
		if err != nil {
			return err
		}
		if _, exists := catalog.forms[def.ID]; exists {
			return fmt.Errorf("definition: duplicate form %q (file %s)", def.ID, path)
		}
		catalog.forms[def.ID] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Form returns the definition with the supplied id.
func (c *Catalog) Form(id string) (model.FormModel, bool) {
	if c == nil {
		return model.FormModel{}, false
	}
	def, ok := c.forms[id]
	return def, ok
}

// IDs lists the loaded form ids, sorted.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.forms))
	for id := range c.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the catalog holds any forms.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.forms) == 0
}

func parseDocument(data []byte, source string) (model.FormModel, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.FormModel{}, fmt.Errorf("definition: file %s is empty", source)
	}

	var def model.FormModel
	if err := sonic.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	def = model.FormModel{}
	if err := yaml.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	return model.FormModel{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML", source)
}

func check(def model.FormModel, source string) error {
	if len(def.Fields) == 0 {
		return fmt.Errorf("%w: %s declares no fields", ErrInvalidDefinition, source)
	}
	seen := make(map[string]struct{}, len(def.Fields))
	for idx, field := range def.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w: %s field %d has no name", ErrInvalidDefinition, source, idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s declares field %q twice", ErrInvalidDefinition, source, name)
		}
		seen[name] = struct{}{}

		if err := checkOptions(field); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, source, err)
		}
		if _, err := model.Coerce(field, field.Default); err != nil {
			return fmt.Errorf("%w: %s: default: %v", ErrInvalidDefinition, source, err)
		}
	}
	return nil
}

func checkOptions(field model.Field) error {
	switch field.Control {
	case model.ControlSelect, model.ControlMultiSelect:
		if len(field.Options) == 0 {
			return fmt.Errorf("field %q needs options for a %s control", field.Name, field.Control)
		}
	}
	values := make(map[string]struct{}, len(field.Options))
	for _, opt := range field.Options {
		if _, dup := values[opt.Value]; dup {
			return fmt.Errorf("field %q repeats option %q", field.Name, opt.Value)
		}
		values[opt.Value] = struct{}{}
	}
	return nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
