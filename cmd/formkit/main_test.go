package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_Valid(t *testing.T) {
	out, err := execute(t, "validate", "testdata/valid.json")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "testdata/valid.json is valid") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestValidate_Invalid(t *testing.T) {
	out, err := execute(t, "validate", "testdata/invalid.json")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	if out != "email: Invalid email address\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, "validate", "--json", "testdata/invalid.json")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	if strings.TrimSpace(out) != `{"email":"Invalid email address"}` {
		t.Fatalf("unexpected json output %q", out)
	}
}

func TestValidate_MissingFile(t *testing.T) {
	if _, err := execute(t, "validate", "testdata/nope.json"); err == nil || errors.Is(err, errInvalid) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestRender_HTML(t *testing.T) {
	out, err := execute(t, "render", "--action", "/signup")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`action="/signup"`, `name="_form" value="demo"`, `<button type="submit">Submit</button>`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRender_Pretty(t *testing.T) {
	out, err := execute(t, "render", "--format", "pretty", "--values", "testdata/invalid.json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"email=NOT-AN-EMAIL\n", "rememberMe=false\n", "email: Invalid email address\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := execute(t, "render", "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestRender_DefinitionFlag(t *testing.T) {
	out, err := execute(t, "--definition", "../../pkg/definition/testdata/signup.json", "render", "--format", "json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("expected JSON output, got %q", out)
	}
}

func TestVersion_Short(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != version+"\n" {
		t.Fatalf("unexpected output %q", out)
	}
}
