package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formkit/pkg/model"
)

// EmailPattern accepts a local part, an @, a domain and a 2-4 letter TLD,
// case-insensitively.
const EmailPattern = `(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,4}$`

var emailRe = regexp.MustCompile(EmailPattern)

// Rule checks a single field value. It returns nil when the value passes or
// one of *RequiredError, *FormatError or *RuleError otherwise.
type Rule interface {
	Validate(field string, value any) error
}

// RuleFunc adapts a function into a Rule.
type RuleFunc func(field string, value any) error

// Validate calls the underlying function.
func (fn RuleFunc) Validate(field string, value any) error {
	return fn(field, value)
}

// Factory compiles a declared rule for a field.
type Factory func(field model.Field, rule model.ValidationRule) (Rule, error)

// Rules maps rule kinds to factories.
type Rules struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRules returns a rule set holding the built-in kinds.
func NewRules() *Rules {
	r := &Rules{factories: make(map[string]Factory)}
	r.MustRegister(model.ValidationRuleRequired, requiredFactory)
	r.MustRegister(model.ValidationRuleEmail, emailFactory)
	r.MustRegister(model.ValidationRulePattern, patternFactory)
	r.MustRegister(model.ValidationRuleMinLength, lengthFactory(true))
	r.MustRegister(model.ValidationRuleMaxLength, lengthFactory(false))
	r.MustRegister(model.ValidationRuleOneOf, oneOfFactory)
	return r
}

// Register adds a factory for kind. Duplicate kinds return an error.
func (r *Rules) Register(kind string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("validation: factory is required")
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return fmt.Errorf("validation: rule kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("validation: rule %q already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// MustRegister panics on registration failure.
func (r *Rules) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Compile builds the rule for a declared constraint.
func (r *Rules) Compile(field model.Field, rule model.ValidationRule) (Rule, error) {
	r.mu.RLock()
	factory, ok := r.factories[rule.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q on field %q", ErrUnknownRule, rule.Kind, field.Name)
	}
	compiled, err := factory(field, rule)
	if err != nil {
		return nil, fmt.Errorf("validation: compile %s on field %q: %w", rule.Kind, field.Name, err)
	}
	return compiled, nil
}

// Kinds lists registered rule kinds, sorted.
func (r *Rules) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Required fails on nil, the empty string and empty sets. Booleans are never
// empty.
func Required(message string) Rule {
	message = orDefault(message, MessageRequired)
	return RuleFunc(func(field string, value any) error {
		if isEmpty(value) {
			return &RequiredError{Field: field, Message: message}
		}
		return nil
	})
}

// Email checks string values against EmailPattern. Empty values pass so the
// required rule owns that case.
func Email(message string) Rule {
	message = orDefault(message, MessageEmail)
	return RuleFunc(func(field string, value any) error {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if !emailRe.MatchString(s) {
			return &FormatError{Field: field, Message: message, Pattern: EmailPattern}
		}
		return nil
	})
}

// Pattern checks string values against an arbitrary expression.
func Pattern(expr, message string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	message = orDefault(message, "Invalid format")
	return RuleFunc(func(field string, value any) error {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return &FormatError{Field: field, Message: message, Pattern: expr}
		}
		return nil
	}), nil
}

// MinLength requires at least n characters, or n items for sets.
func MinLength(n int, message string) Rule {
	message = orDefault(message, fmt.Sprintf("Must be at least %d characters", n))
	return RuleFunc(func(field string, value any) error {
		size, ok := sizeOf(value)
		if !ok || size == 0 {
			return nil
		}
		if size < n {
			return &RuleError{Field: field, Kind: model.ValidationRuleMinLength, Message: message}
		}
		return nil
	})
}

// MaxLength allows at most n characters, or n items for sets.
func MaxLength(n int, message string) Rule {
	message = orDefault(message, fmt.Sprintf("Must be at most %d characters", n))
	return RuleFunc(func(field string, value any) error {
		size, ok := sizeOf(value)
		if !ok {
			return nil
		}
		if size > n {
			return &RuleError{Field: field, Kind: model.ValidationRuleMaxLength, Message: message}
		}
		return nil
	})
}

// OneOf restricts a string, or every member of a set, to allowed values.
func OneOf(allowed []string, message string) Rule {
	message = orDefault(message, "Must be one of: "+strings.Join(allowed, ", "))
	index := make(map[string]struct{}, len(allowed))
	for _, value := range allowed {
		index[value] = struct{}{}
	}
	check := func(s string) bool {
		_, ok := index[s]
		return ok
	}
	return RuleFunc(func(field string, value any) error {
		switch typed := value.(type) {
		case string:
			if typed != "" && !check(typed) {
				return &RuleError{Field: field, Kind: model.ValidationRuleOneOf, Message: message}
			}
		case []string:
			for _, item := range typed {
				if !check(item) {
					return &RuleError{Field: field, Kind: model.ValidationRuleOneOf, Message: message}
				}
			}
		}
		return nil
	})
}

func requiredFactory(_ model.Field, rule model.ValidationRule) (Rule, error) {
	return Required(rule.Params["message"]), nil
}

func emailFactory(_ model.Field, rule model.ValidationRule) (Rule, error) {
	return Email(rule.Params["message"]), nil
}

func patternFactory(_ model.Field, rule model.ValidationRule) (Rule, error) {
	expr := strings.TrimSpace(rule.Params["pattern"])
	if expr == "" {
		return nil, fmt.Errorf("pattern param is required")
	}
	return Pattern(expr, rule.Params["message"])
}

func lengthFactory(lower bool) Factory {
	return func(_ model.Field, rule model.ValidationRule) (Rule, error) {
		n, err := strconv.Atoi(strings.TrimSpace(rule.Params["value"]))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("value param must be a non-negative integer, got %q", rule.Params["value"])
		}
		if lower {
			return MinLength(n, rule.Params["message"]), nil
		}
		return MaxLength(n, rule.Params["message"]), nil
	}
}

// oneOfFactory reads a comma separated Params["values"], falling back to the
// field's declared options.
func oneOfFactory(field model.Field, rule model.ValidationRule) (Rule, error) {
	var allowed []string
	if raw := strings.TrimSpace(rule.Params["values"]); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				allowed = append(allowed, part)
			}
		}
	} else {
		for _, opt := range field.Options {
			allowed = append(allowed, opt.Value)
		}
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("no allowed values declared")
	}
	return OneOf(allowed, rule.Params["message"]), nil
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}

func sizeOf(value any) (int, bool) {
	switch typed := value.(type) {
	case string:
		return utf8.RuneCountInString(typed), true
	case []string:
		return len(typed), true
	default:
		return 0, false
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
