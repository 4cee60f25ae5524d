package adapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownAdapter is returned when a field references an adapter name that
// was never registered.
var ErrUnknownAdapter = errors.New("adapters: unknown adapter")

// Registry stores adapters by name so form definitions can reference them
// declaratively.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates a registry seeded with the built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.MustRegister(NameUppercase, Uppercase())
	r.MustRegister(NameLowercase, Lowercase())
	r.MustRegister(NameTrim, Trim())
	return r
}

// Register adds an adapter. Duplicate names return an error.
func (r *Registry) Register(name string, adapter Adapter) error {
	if adapter == nil {
		return fmt.Errorf("adapters: adapter is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("adapters: adapter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("adapters: adapter %q already registered", name)
	}
	r.adapters[name] = adapter
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, adapter Adapter) {
	if err := r.Register(name, adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by name.
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
	}
	return adapter, nil
}

// Resolve builds a chain from the listed names. An empty list resolves to nil.
func (r *Registry) Resolve(names []string) (Adapter, error) {
	if len(names) == 0 {
		return nil, nil
	}
	steps := make([]Adapter, 0, len(names))
	for _, name := range names {
		adapter, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		steps = append(steps, adapter)
	}
	if len(steps) == 1 {
		return steps[0], nil
	}
	return Chain(steps...), nil
}

// List returns a sorted list of adapter names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
