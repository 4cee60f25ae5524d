package render_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
)

func newStore(t *testing.T) *form.Store {
	t.Helper()
	store, err := form.New(model.FormModel{
		ID:          "signup",
		SubmitLabel: "Join",
		Fields: []model.Field{
			{
				Name:        "email",
				Control:     model.ControlText,
				Validations: []model.ValidationRule{{Kind: model.ValidationRuleRequired}},
			},
			{Name: "rememberMe", Control: model.ControlToggle, Default: true},
		},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

type statusRenderer struct{}

func (statusRenderer) Name() string        { return "status" }
func (statusRenderer) ContentType() string { return "text/plain" }
func (statusRenderer) Render(_ context.Context, view render.View) ([]byte, error) {
	return []byte(string(view.Status) + ";"), nil
}

func TestViewFromSnapshot(t *testing.T) {
	store := newStore(t)
	opts := render.RenderOptions{Method: "post", Hidden: map[string]string{"_csrf": "abc"}}

	view := render.ViewFromStore(store, opts)
	if view.Method != "POST" || view.Busy || view.SubmitDisabled() {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.SubmitLabel() != "Join" {
		t.Fatalf("unexpected submit label %q", view.SubmitLabel())
	}
	if view.FieldError("email") != "" {
		t.Fatalf("untouched field must not show errors")
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "_csrf", Value: "abc"}}, view.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}

	opts.ShowAllErrors = true
	view = render.ViewFromStore(store, opts)
	if view.FieldError("email") != "Required" {
		t.Fatalf("expected error with ShowAllErrors, got %q", view.FieldError("email"))
	}
}

func TestBind_PresentsEveryChange(t *testing.T) {
	store := newStore(t)

	var buf bytes.Buffer
	presenter := render.WriterPresenter{Renderer: statusRenderer{}, W: &buf}
	action := form.ActionFunc(func(_ context.Context, _ model.Values, ack form.Ack) { ack(nil) })
	ctrl := form.NewController(store, action)

	unbind := render.Bind(context.Background(), store, presenter)
	if err := store.SetValue("email", "someone"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	result := ctrl.Submit(context.Background())
	<-result.Done
	unbind()
	if err := store.SetValue("email", "ignored"); err != nil {
		t.Fatalf("set value: %v", err)
	}

	want := "idle;idle;in_flight;completed;idle;"
	if got := buf.String(); got != want {
		t.Fatalf("presented statuses mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestBind_ReportsPresenterErrors(t *testing.T) {
	store := newStore(t)
	boom := errors.New("terminal closed")

	var got []error
	unbind := render.Bind(context.Background(), store,
		render.PresenterFunc(func(context.Context, render.View) error { return boom }),
		render.WithErrorHandler(func(err error) { got = append(got, err) }),
		render.WithoutInitialPresent(),
	)
	defer unbind()

	if err := store.Touch("email"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if len(got) != 1 || !errors.Is(got[0], boom) {
		t.Fatalf("expected presenter error, got %v", got)
	}
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry(statusRenderer{})
	if err := registry.Register(statusRenderer{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"status"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	out, err := registry.Render(context.Background(), "status", render.View{Status: form.StatusIdle})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "idle;" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := registry.Render(context.Background(), "pdf", render.View{}); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}
