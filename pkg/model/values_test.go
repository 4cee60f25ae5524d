package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
)

func demoModel() model.FormModel {
	return model.FormModel{
		ID: "demo",
		Fields: []model.Field{
			{Name: "email", Control: model.ControlText},
			{Name: "password", Control: model.ControlPassword},
			{Name: "select", Control: model.ControlSelect, Default: "none"},
			{Name: "tags", Control: model.ControlMultiSelect},
			{Name: "rememberMe", Control: model.ControlToggle, Default: true},
		},
	}
}

func TestInitialValues_Defaults(t *testing.T) {
	values, err := demoModel().InitialValues()
	if err != nil {
		t.Fatalf("initial values: %v", err)
	}

	want := map[string]any{
		"email":      "",
		"password":   "",
		"select":     "none",
		"tags":       []string{},
		"rememberMe": true,
	}
	if diff := cmp.Diff(want, values.Map()); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"email", "password", "select", "tags", "rememberMe"}, values.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestValues_MarshalJSONKeepsOrder(t *testing.T) {
	values, err := demoModel().InitialValues()
	if err != nil {
		t.Fatalf("initial values: %v", err)
	}

	out, err := values.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"email":"","password":"","select":"none","tags":[],"rememberMe":true}`
	if string(out) != want {
		t.Fatalf("json mismatch\nwant: %s\n got: %s", want, out)
	}
}

func TestValues_SnapshotsDoNotAlias(t *testing.T) {
	base := model.NewValues([]string{"tags"}, map[string]any{"tags": []string{"dogs"}})

	tags := base.Strings("tags")
	tags[0] = "cats"
	if got := base.Strings("tags"); got[0] != "dogs" {
		t.Fatalf("expected snapshot to be immutable, got %v", got)
	}

	next := base.With("tags", []string{"rats"})
	if got := base.Strings("tags"); got[0] != "dogs" {
		t.Fatalf("With mutated receiver: %v", got)
	}
	if got := next.Strings("tags"); got[0] != "rats" {
		t.Fatalf("With did not apply: %v", got)
	}
	if base.Equal(next) {
		t.Fatalf("expected snapshots to differ")
	}
}

func TestCoerce(t *testing.T) {
	toggle := model.Field{Name: "rememberMe", Control: model.ControlToggle}
	if got, err := model.Coerce(toggle, "false"); err != nil || got != false {
		t.Fatalf("coerce toggle string: %v %v", got, err)
	}

	set := model.Field{Name: "tags", Control: model.ControlMultiSelect}
	got, err := model.Coerce(set, []any{"dogs", "cats", "dogs"})
	if err != nil {
		t.Fatalf("coerce set: %v", err)
	}
	if diff := cmp.Diff([]string{"dogs", "cats"}, got); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}

	text := model.Field{Name: "email", Control: model.ControlText}
	_, err = model.Coerce(text, 42)
	var typeErr *model.TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if typeErr.Field != "email" || typeErr.Want != model.ValueString {
		t.Fatalf("unexpected type error: %#v", typeErr)
	}
}

func TestFormErrors_Only(t *testing.T) {
	errs := model.FormErrors{"email": "Required", "password": "Too short"}
	visible := errs.Only(map[string]bool{"email": true})
	if diff := cmp.Diff(model.FormErrors{"email": "Required"}, visible); diff != "" {
		t.Fatalf("visible errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"email", "password"}, errs.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}
