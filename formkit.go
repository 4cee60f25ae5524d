// Package formkit wires the form store, validation and renderers behind a few
// entry points for hosts that just want a working form.
package formkit

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
)

// RenderOptions aliases render.RenderOptions for callers that only import the
// root package.
type RenderOptions = render.RenderOptions

// View aliases render.View.
type View = render.View

// NewStore builds a store over def.
func NewStore(def model.FormModel, opts ...form.Option) (*form.Store, error) {
	return form.New(def, opts...)
}

// DemoStore builds a store over the embedded demo definition.
func DemoStore(opts ...form.Option) (*form.Store, error) {
	def, err := definition.Demo()
	if err != nil {
		return nil, err
	}
	return form.New(def, opts...)
}

// LoadStore reads a YAML or JSON definition and builds a store over it.
func LoadStore(path string, opts ...form.Option) (*form.Store, error) {
	def, err := definition.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return form.New(def, opts...)
}

// NewRegistry returns a registry holding the built-in renderers: "vanilla"
// HTML and the "tui" text dump.
func NewRegistry(tuiOptions ...tui.Option) (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("formkit: %w", err)
	}
	return render.NewRegistry(html, tui.New(tuiOptions...)), nil
}

// RenderHTML renders the store's current state as an HTML form.
func RenderHTML(ctx context.Context, store *form.Store, opts RenderOptions) ([]byte, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("formkit: %w", err)
	}
	return html.Render(ctx, render.ViewFromStore(store, opts))
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
