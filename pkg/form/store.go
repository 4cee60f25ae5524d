// Package form owns the mutable state of a rendered form: current values,
// validation errors, dirty and touched flags and the submission status. The
// Store is the single writer; presentation layers read snapshots and subscribe
// to change notifications.
package form

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/adapters"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Observer receives a snapshot after every state change.
type Observer func(Snapshot)

// Snapshot is a consistent, immutable view of the store. Dirty marks fields
// written since the last reset, whether or not the value differs from the
// default; use Store.Changes to compare against the defaults.
type Snapshot struct {
	Values        model.Values
	Errors        model.FormErrors
	VisibleErrors model.FormErrors
	Dirty         map[string]bool
	Touched       map[string]bool
	Status        Status
	SubmitCount   int
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAdapters resolves field adapter names against registry instead of the
// built-in set.
func WithAdapters(registry *adapters.Registry) Option {
	return func(s *Store) {
		if registry != nil {
			s.adapterRegistry = registry
		}
	}
}

// WithRules compiles field validations against a custom rule set.
func WithRules(rules *validation.Rules) Option {
	return func(s *Store) {
		if rules != nil {
			s.rules = rules
		}
	}
}

// WithMetrics records submission metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Store) {
		s.metrics = metrics
	}
}

// Store holds the state of a single form instance.
type Store struct {
	form     model.FormModel
	fields   map[string]model.Field
	adapters map[string]adapters.Adapter
	engine   *validation.Engine

	adapterRegistry *adapters.Registry
	rules           *validation.Rules
	logger          *zap.SugaredLogger
	metrics         *Metrics

	mu          sync.Mutex
	initial     model.Values
	values      model.Values
	errors      model.FormErrors
	dirty       map[string]bool
	touched     map[string]bool
	submitCount int
	generation  uint64
	status      *statusMachine

	observers    []subscription
	nextObserver int
}

type subscription struct {
	id int
	fn Observer
}

// New builds a store seeded with the form defaults and their validation
// errors.
func New(form model.FormModel, opts ...Option) (*Store, error) {
	s := &Store{
		form:     form,
		fields:   make(map[string]model.Field, len(form.Fields)),
		adapters: make(map[string]adapters.Adapter),
		logger:   zap.NewNop().Sugar(),
		dirty:    make(map[string]bool),
		touched:  make(map[string]bool),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.adapterRegistry == nil {
		s.adapterRegistry = adapters.NewRegistry()
	}

	for _, field := range form.Fields {
		if _, dup := s.fields[field.Name]; dup {
			return nil, fmt.Errorf("form: duplicate field %q", field.Name)
		}
		if !field.Control.Valid() {
			return nil, fmt.Errorf("form: field %q has unsupported control %q", field.Name, field.Control)
		}
		s.fields[field.Name] = field

		chain, err := s.adapterRegistry.Resolve(field.Adapters)
		if err != nil {
			return nil, fmt.Errorf("form: field %q: %w", field.Name, err)
		}
		if chain != nil {
			s.adapters[field.Name] = chain
		}
	}

	var engineOpts []validation.Option
	if s.rules != nil {
		engineOpts = append(engineOpts, validation.WithRules(s.rules))
	}
	engine, err := validation.New(form, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	s.engine = engine

	initial, err := form.InitialValues()
	if err != nil {
		return nil, fmt.Errorf("form: initial values: %w", err)
	}
	s.initial = initial
	s.values = initial
	s.errors = engine.Validate(initial)
	s.status = newStatusMachine(form.ID, s.logger)
	return s, nil
}

// Form returns the model the store was built from.
func (s *Store) Form() model.FormModel {
	return s.form
}

// Values returns the current values snapshot.
func (s *Store) Values() model.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// Errors returns a copy of the current validation errors.
func (s *Store) Errors() model.FormErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.Clone()
}

// VisibleErrors returns the errors a presenter should display: those of
// touched fields, or all of them once a submit has been attempted.
func (s *Store) VisibleErrors() model.FormErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleErrorsLocked()
}

// Status returns the submission status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.current()
}

// Snapshot returns a consistent view of the whole store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetValue runs raw through the field's adapters, coerces it to the control's
// value kind and stores it. The field is marked dirty even when the stored
// value is unchanged. Errors are recomputed for the whole form and observers
// are notified.
func (s *Store) SetValue(name string, raw any) error {
	value, err := s.prepare(name, raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.values = s.values.With(name, value)
	s.dirty[name] = true
	s.errors = s.engine.Validate(s.values)
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	s.logger.Debugw("form value set", "form", s.form.ID, "field", name)
	notify(observers, snap)
	return nil
}

// SetValues applies several values at once. Nothing is stored unless every
// entry is accepted; observers are notified once.
func (s *Store) SetValues(updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	unknown := make([]string, 0)
	for name := range updates {
		if _, ok := s.fields[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return s.unknownField(unknown[0])
	}

	prepared := make(map[string]any, len(updates))
	for _, field := range s.form.Fields {
		raw, ok := updates[field.Name]
		if !ok {
			continue
		}
		value, err := s.prepare(field.Name, raw)
		if err != nil {
			return err
		}
		prepared[field.Name] = value
	}

	s.mu.Lock()
	next := s.values
	for _, field := range s.form.Fields {
		value, ok := prepared[field.Name]
		if !ok {
			continue
		}
		next = next.With(field.Name, value)
		s.dirty[field.Name] = true
	}
	s.values = next
	s.errors = s.engine.Validate(s.values)
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
	return nil
}

// Touch marks a field as visited so its errors become visible.
func (s *Store) Touch(name string) error {
	if _, ok := s.fields[name]; !ok {
		return s.unknownField(name)
	}

	s.mu.Lock()
	if s.touched[name] {
		s.mu.Unlock()
		return nil
	}
	s.touched[name] = true
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
	return nil
}

// Reset restores the defaults and returns the status to idle. An
// acknowledgement for a submission accepted before the reset is discarded.
func (s *Store) Reset() {
	s.mu.Lock()
	s.generation++
	s.values = s.initial
	s.errors = s.engine.Validate(s.values)
	s.dirty = make(map[string]bool)
	s.touched = make(map[string]bool)
	s.submitCount = 0
	if err := s.status.fire(eventReset); err != nil {
		s.logger.Errorw("form reset", "form", s.form.ID, "error", err)
	}
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	s.logger.Debugw("form reset", "form", s.form.ID)
	notify(observers, snap)
}

// Subscribe registers fn for change notifications. Observers run
// synchronously after each mutation, outside the store lock, in subscription
// order. The returned function removes the subscription.
func (s *Store) Subscribe(fn Observer) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextObserver++
	id := s.nextObserver
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for idx, sub := range s.observers {
				if sub.id == id {
					s.observers = append(s.observers[:idx:idx], s.observers[idx+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) prepare(name string, raw any) (any, error) {
	field, ok := s.fields[name]
	if !ok {
		return nil, s.unknownField(name)
	}
	if adapter := s.adapters[name]; adapter != nil {
		raw = adapter.Transform(raw)
	}
	value, err := model.Coerce(field, raw)
	if err != nil {
		s.logger.Warnw("form value rejected", "form", s.form.ID, "field", name, "error", err)
		return nil, err
	}
	return value, nil
}

func (s *Store) unknownField(name string) error {
	err := &UnknownFieldError{Field: name}
	s.logger.Errorw("form update on unknown field", "form", s.form.ID, "field", name, "error", err)
	return err
}

func (s *Store) visibleErrorsLocked() model.FormErrors {
	if s.submitCount > 0 {
		return s.errors.Clone()
	}
	return s.errors.Only(s.touched)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Values:        s.values,
		Errors:        s.errors.Clone(),
		VisibleErrors: s.visibleErrorsLocked(),
		Dirty:         copyFlags(s.dirty),
		Touched:       copyFlags(s.touched),
		Status:        s.status.current(),
		SubmitCount:   s.submitCount,
	}
}

func (s *Store) observersLocked() []Observer {
	out := make([]Observer, 0, len(s.observers))
	for _, sub := range s.observers {
		out = append(out, sub.fn)
	}
	return out
}

func notify(observers []Observer, snap Snapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}

func copyFlags(flags map[string]bool) map[string]bool {
	out := make(map[string]bool, len(flags))
	for name, set := range flags {
		if set {
			out[name] = true
		}
	}
	return out
}
