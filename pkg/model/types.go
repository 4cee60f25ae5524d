package model

import "strings"

// ControlKind is the input control a field is bound to.
type ControlKind string

const (
	ControlText        ControlKind = "text"
	ControlPassword    ControlKind = "password"
	ControlToggle      ControlKind = "toggle"
	ControlSelect      ControlKind = "select"
	ControlMultiSelect ControlKind = "multiselect"
)

// Valid reports whether the kind is one of the supported controls.
func (k ControlKind) Valid() bool {
	switch k {
	case ControlText, ControlPassword, ControlToggle, ControlSelect, ControlMultiSelect:
		return true
	default:
		return false
	}
}

// ValueKind describes the Go type a control stores.
type ValueKind string

const (
	ValueString    ValueKind = "string"
	ValueBool      ValueKind = "bool"
	ValueStringSet ValueKind = "set"
)

// ValueKind maps the control to the type held in Values.
func (k ControlKind) ValueKind() ValueKind {
	switch k {
	case ControlToggle:
		return ValueBool
	case ControlMultiSelect:
		return ValueStringSet
	default:
		return ValueString
	}
}

const (
	ValidationRuleRequired  = "required"
	ValidationRuleEmail     = "email"
	ValidationRulePattern   = "pattern"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRuleOneOf     = "oneOf"
)

// ValidationRule represents a single validation constraint applied to a field.
// Length limits encode their threshold in Params["value"], pattern rules keep
// the expression in Params["pattern"] and any rule may override its failure
// text through Params["message"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Option is a selectable entry for select and multiselect controls.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DisplayLabel falls back to the value when no label is set.
func (o Option) DisplayLabel() string {
	if strings.TrimSpace(o.Label) != "" {
		return o.Label
	}
	return o.Value
}

// Field models an individual input inside a form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Control     ControlKind       `json:"control,omitempty" yaml:"control,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	HelpText    string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Default     any               `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	Adapters    []string          `json:"adapters,omitempty" yaml:"adapters,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty" yaml:"uiHints,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DisplayLabel returns the label or, when empty, the field name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// HasRule reports whether the field declares a rule of the given kind.
func (f Field) HasRule(kind string) bool {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

// OptionLabel resolves the label of a declared option value.
func (f Field) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.DisplayLabel()
		}
	}
	return value
}

// FormModel is the top-level representation the store and renderers consume.
type FormModel struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field looks up a declared field by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the declared names in order.
func (m FormModel) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		names = append(names, field.Name)
	}
	return names
}

// InitialValues builds the snapshot of defaults. Fields without a default get
// the zero value of their control's kind.
func (m FormModel) InitialValues() (Values, error) {
	data := make(map[string]any, len(m.Fields))
	for _, field := range m.Fields {
		value, err := Coerce(field, field.Default)
		if err != nil {
			return Values{}, err
		}
		data[field.Name] = value
	}
	return NewValues(m.FieldNames(), data), nil
}
