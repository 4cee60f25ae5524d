// Package validation compiles the declarative rules attached to form fields and
// evaluates them against value snapshots. Evaluation is pure: the same values
// always produce the same errors.
package validation

import "github.com/goliatone/go-formkit/pkg/model"

// Option customises an Engine.
type Option func(*Engine)

// WithRules swaps the rule set used to compile field constraints.
func WithRules(rules *Rules) Option {
	return func(e *Engine) {
		if rules != nil {
			e.rules = rules
		}
	}
}

// Engine evaluates compiled field rules.
type Engine struct {
	rules  *Rules
	fields []compiledField
}

type compiledField struct {
	name  string
	rules []Rule
}

// Issue represents a single failure with its field location.
type Issue struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result captures the outcome of Check in a serialisable form.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// New compiles the rules declared on every field of form. Required rules are
// ordered ahead of the others so an empty value reports "Required" rather
// than a format failure.
func New(form model.FormModel, opts ...Option) (*Engine, error) {
	engine := &Engine{rules: NewRules()}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}

	for _, field := range form.Fields {
		if len(field.Validations) == 0 {
			continue
		}
		compiled := compiledField{name: field.Name}
		var rest []Rule
		for _, decl := range field.Validations {
			rule, err := engine.rules.Compile(field, decl)
			if err != nil {
				return nil, err
			}
			if decl.Kind == model.ValidationRuleRequired {
				compiled.rules = append(compiled.rules, rule)
				continue
			}
			rest = append(rest, rule)
		}
		compiled.rules = append(compiled.rules, rest...)
		engine.fields = append(engine.fields, compiled)
	}
	return engine, nil
}

// Validate returns one message per failing field. Fields that pass, or carry
// no rules, have no entry.
func (e *Engine) Validate(values model.Values) model.FormErrors {
	errs := model.FormErrors{}
	for _, failure := range e.collect(values) {
		errs[failure.field] = Message(failure.err)
	}
	return errs
}

// Issues returns the first failure of each field as a typed error, in field
// declaration order.
func (e *Engine) Issues(values model.Values) []error {
	failures := e.collect(values)
	issues := make([]error, 0, len(failures))
	for _, failure := range failures {
		issues = append(issues, failure.err)
	}
	return issues
}

// Check wraps Issues into a Result.
func (e *Engine) Check(values model.Values) Result {
	result := Result{Valid: true}
	for _, failure := range e.collect(values) {
		result.Valid = false
		result.Issues = append(result.Issues, Issue{
			Field:   failure.field,
			Kind:    Kind(failure.err),
			Message: Message(failure.err),
		})
	}
	return result
}

// Fields lists names of fields that carry at least one rule.
func (e *Engine) Fields() []string {
	names := make([]string, 0, len(e.fields))
	for _, field := range e.fields {
		names = append(names, field.name)
	}
	return names
}

type fieldFailure struct {
	field string
	err   error
}

func (e *Engine) collect(values model.Values) []fieldFailure {
	var failures []fieldFailure
	for _, field := range e.fields {
		value, _ := values.Get(field.name)
		for _, rule := range field.rules {
			if err := rule.Validate(field.name, value); err != nil {
				failures = append(failures, fieldFailure{field: field.name, err: err})
				break
			}
		}
	}
	return failures
}
