package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/form"
	pkgmodel "github.com/goliatone/go-formkit/pkg/model"
)

// DemoForm returns the embedded demo definition, failing the test when it
// cannot be loaded.
func DemoForm(t *testing.T) pkgmodel.FormModel {
	t.Helper()

	def, err := definition.Demo()
	if err != nil {
		t.Fatalf("load demo form: %v", err)
	}
	return def
}

// NewDemoStore builds a store over the demo form.
func NewDemoStore(t *testing.T, opts ...form.Option) *form.Store {
	t.Helper()

	store, err := form.New(DemoForm(t), opts...)
	if err != nil {
		t.Fatalf("new demo store: %v", err)
	}
	return store
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// RecordingAction captures submissions and holds their acks so tests decide
// when, and how, each submission completes.
type RecordingAction struct {
	mu     sync.Mutex
	values []pkgmodel.Values
	acks   []form.Ack
}

// Submit implements form.Action.
func (a *RecordingAction) Submit(_ context.Context, values pkgmodel.Values, ack form.Ack) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values = append(a.values, values)
	a.acks = append(a.acks, ack)
}

// Calls returns how many submissions reached the action.
func (a *RecordingAction) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.values)
}

// Values returns the snapshot passed to the idx-th submission.
func (a *RecordingAction) Values(idx int) pkgmodel.Values {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.values[idx]
}

// Ack acknowledges the idx-th submission.
func (a *RecordingAction) Ack(idx int, err error) {
	a.mu.Lock()
	ack := a.acks[idx]
	a.mu.Unlock()
	ack(err)
}
