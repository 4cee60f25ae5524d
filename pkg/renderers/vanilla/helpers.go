package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// defaultHelpPolicy allows the inline markup help text commonly carries.
func defaultHelpPolicy() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "code", "br", "span")
		p.AllowStandardURLs()
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		helpPolicy = p
	})
	return helpPolicy
}

func controlID(formID, name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	prefix := "fk"
	if id := strings.TrimSpace(formID); id != "" {
		prefix += "-" + id
	}
	return prefix + "-" + trimmed
}

// sanitizeClassList drops tokens that would collide with the built-in chrome
// classes.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "formkit-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

func inputType(field model.Field) string {
	if field.Control == model.ControlPassword {
		return "password"
	}
	if hint := strings.TrimSpace(field.UIHints["inputType"]); hint != "" && hint != "password" {
		return hint
	}
	if field.HasRule(model.ValidationRuleEmail) {
		return "email"
	}
	return "text"
}

func fieldData(view render.View, field model.Field, policy *bluemonday.Policy) map[string]any {
	data := map[string]any{
		"name":         field.Name,
		"inputName":    field.Name,
		"id":           controlID(view.Form.ID, field.Name),
		"label":        field.DisplayLabel(),
		"control":      string(field.Control),
		"inputType":    inputType(field),
		"placeholder":  field.Placeholder,
		"autocomplete": field.UIHints["autocomplete"],
		"required":     field.HasRule(model.ValidationRuleRequired),
		"error":        view.FieldError(field.Name),
		"class":        sanitizeClassList(field.UIHints["class"]),
		"help":         strings.TrimSpace(policy.Sanitize(field.HelpText)),
	}

	switch field.Control {
	case model.ControlToggle:
		data["checked"] = view.Values.Bool(field.Name)
	case model.ControlSelect:
		data["options"] = optionData(field.Options, []string{view.Values.String(field.Name)})
	case model.ControlMultiSelect:
		data["inputName"] = field.Name + "[]"
		data["options"] = optionData(field.Options, view.Values.Strings(field.Name))
	default:
		data["value"] = view.Values.String(field.Name)
	}
	return data
}

func optionData(options []model.Option, selected []string) []any {
	chosen := make(map[string]bool, len(selected))
	for _, value := range selected {
		chosen[value] = true
	}
	out := make([]any, 0, len(options))
	for _, opt := range options {
		out = append(out, map[string]any{
			"value":    opt.Value,
			"label":    opt.DisplayLabel(),
			"selected": chosen[opt.Value],
		})
	}
	return out
}
