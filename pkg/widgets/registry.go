// Package widgets infers the control kind of fields whose definition leaves it
// out. Explicit controls always win; otherwise registered matchers are tried
// by priority.
package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Matcher decides whether a control kind fits the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	control  model.ControlKind
	priority int
	match    Matcher
	order    int
}

// Registry selects control kinds for fields based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for control with the provided priority.
func (r *Registry) Register(control model.ControlKind, priority int, matcher Matcher) {
	if r == nil || matcher == nil || !control.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		control:  control,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the control kind for a field. A control set on the field,
// or a "control" UI hint, is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (model.ControlKind, bool) {
	if field.Control != "" {
		return field.Control, true
	}
	if hint := model.ControlKind(strings.TrimSpace(field.UIHints["control"])); hint != "" {
		return hint, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.control, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator, filling in the control of every field
// that lacks one. Unsupported explicit controls are reported as errors.
func (r *Registry) Decorate(form *model.FormModel) error {
	if form == nil {
		return nil
	}
	for idx, field := range form.Fields {
		control, ok := r.Resolve(field)
		if !ok {
			control = model.ControlText
		}
		if !control.Valid() {
			return fmt.Errorf("widgets: field %q has unsupported control %q", field.Name, control)
		}
		form.Fields[idx].Control = control
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(model.ControlToggle, 90, func(field model.Field) bool {
		_, ok := field.Default.(bool)
		return ok
	})

	r.Register(model.ControlMultiSelect, 80, func(field model.Field) bool {
		if len(field.Options) == 0 {
			return false
		}
		switch field.Default.(type) {
		case []string, []any:
			return true
		}
		return strings.EqualFold(field.UIHints["multiple"], "true")
	})

	r.Register(model.ControlSelect, 70, func(field model.Field) bool {
		return len(field.Options) > 0
	})

	r.Register(model.ControlPassword, 60, func(field model.Field) bool {
		if strings.EqualFold(field.UIHints["inputType"], "password") {
			return true
		}
		return strings.Contains(strings.ToLower(field.Name), "password")
	})
}
