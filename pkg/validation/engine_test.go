package validation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func emailForm() model.FormModel {
	return model.FormModel{
		ID: "signup",
		Fields: []model.Field{
			{
				Name:    "email",
				Control: model.ControlText,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleEmail},
					{Kind: model.ValidationRuleRequired},
				},
			},
			{Name: "password", Control: model.ControlPassword},
		},
	}
}

func valuesWithEmail(email string) model.Values {
	return model.NewValues([]string{"email", "password"}, map[string]any{
		"email":    email,
		"password": "",
	})
}

func TestEngine_Email(t *testing.T) {
	engine, err := validation.New(emailForm())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	cases := []struct {
		email string
		want  model.FormErrors
	}{
		{email: "", want: model.FormErrors{"email": "Required"}},
		{email: "not-an-email", want: model.FormErrors{"email": "Invalid email address"}},
		{email: "a@b", want: model.FormErrors{"email": "Invalid email address"}},
		{email: "user@example.com", want: model.FormErrors{}},
		{email: "USER@EXAMPLE.COM", want: model.FormErrors{}},
		{email: "first.last+tag@mail.example.co", want: model.FormErrors{}},
		{email: "user@example.museum", want: model.FormErrors{"email": "Invalid email address"}},
	}
	for _, tc := range cases {
		got := engine.Validate(valuesWithEmail(tc.email))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("email %q mismatch (-want +got):\n%s", tc.email, diff)
		}
	}
}

func TestEngine_ValidateIsIdempotent(t *testing.T) {
	engine, err := validation.New(emailForm())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	values := valuesWithEmail("nope")
	first := engine.Validate(values)
	second := engine.Validate(values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validate not idempotent (-want +got):\n%s", diff)
	}
}

func TestEngine_IssuesAreTyped(t *testing.T) {
	engine, err := validation.New(emailForm())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	issues := engine.Issues(valuesWithEmail(""))
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	var required *validation.RequiredError
	if !errors.As(issues[0], &required) || required.Field != "email" {
		t.Fatalf("expected RequiredError for email, got %#v", issues[0])
	}

	issues = engine.Issues(valuesWithEmail("bad"))
	var format *validation.FormatError
	if len(issues) != 1 || !errors.As(issues[0], &format) {
		t.Fatalf("expected FormatError, got %v", issues)
	}
	if format.Pattern != validation.EmailPattern {
		t.Fatalf("unexpected pattern %q", format.Pattern)
	}
}

func TestEngine_Check(t *testing.T) {
	engine, err := validation.New(emailForm())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got := engine.Check(valuesWithEmail(""))
	want := validation.Result{
		Valid:  false,
		Issues: []validation.Issue{{Field: "email", Kind: "required", Message: "Required"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("check mismatch (-want +got):\n%s", diff)
	}
	if !engine.Check(valuesWithEmail("ok@example.com")).Valid {
		t.Fatalf("expected valid result")
	}
}

func TestEngine_UnknownRule(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{{
		Name:        "email",
		Control:     model.ControlText,
		Validations: []model.ValidationRule{{Kind: "luhn"}},
	}}}
	if _, err := validation.New(form); !errors.Is(err, validation.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
}

func TestEngine_ExtendedRules(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{
		{
			Name:    "password",
			Control: model.ControlPassword,
			Validations: []model.ValidationRule{
				{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "8"}},
				{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "12", "message": "Too long"}},
			},
		},
		{
			Name:    "tags",
			Control: model.ControlMultiSelect,
			Options: []model.Option{{Value: "dogs"}, {Value: "cats"}},
			Validations: []model.ValidationRule{
				{Kind: model.ValidationRuleOneOf},
			},
		},
		{
			Name:    "code",
			Control: model.ControlText,
			Validations: []model.ValidationRule{
				{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": `^[0-9]+$`}},
			},
		},
	}}
	engine, err := validation.New(form)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	values := model.NewValues([]string{"password", "tags", "code"}, map[string]any{
		"password": "short",
		"tags":     []string{"dogs", "lizards"},
		"code":     "12a",
	})
	want := model.FormErrors{
		"password": "Must be at least 8 characters",
		"tags":     "Must be one of: dogs, cats",
		"code":     "Invalid format",
	}
	if diff := cmp.Diff(want, engine.Validate(values)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	values = values.With("password", "much-too-long-secret").With("tags", []string{"cats"}).With("code", "")
	want = model.FormErrors{"password": "Too long"}
	if diff := cmp.Diff(want, engine.Validate(values)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRequired_BoolNeverEmpty(t *testing.T) {
	rule := validation.Required("")
	if err := rule.Validate("rememberMe", false); err != nil {
		t.Fatalf("expected bool to satisfy required, got %v", err)
	}
	if err := rule.Validate("tags", []string{}); err == nil {
		t.Fatalf("expected empty set to fail required")
	}
}

func TestRules_CustomKind(t *testing.T) {
	rules := validation.NewRules()
	err := rules.Register("noSpaces", func(_ model.Field, _ model.ValidationRule) (validation.Rule, error) {
		return validation.RuleFunc(func(field string, value any) error {
			if s, _ := value.(string); s == "a b" {
				return &validation.RuleError{Field: field, Kind: "noSpaces", Message: "No spaces"}
			}
			return nil
		}), nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	form := model.FormModel{Fields: []model.Field{{
		Name:        "handle",
		Control:     model.ControlText,
		Validations: []model.ValidationRule{{Kind: "noSpaces"}},
	}}}
	engine, err := validation.New(form, validation.WithRules(rules))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	values := model.NewValues([]string{"handle"}, map[string]any{"handle": "a b"})
	if diff := cmp.Diff(model.FormErrors{"handle": "No spaces"}, engine.Validate(values)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
