package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/render"
	rendertemplate "github.com/goliatone/go-formkit/pkg/render/template"
	gotemplate "github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
)

// BusyLabel is shown next to the disabled submit button while a submission
// is in flight.
const BusyLabel = "Submitting..."

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	stylesheets      []string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// contain FormTemplate.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithHelpPolicy replaces the sanitizer applied to field help text.
func WithHelpPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithStylesheet links an external stylesheet ahead of the form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// Renderer produces an HTML form fragment for a View.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
	// chrome is merged into every render for injected template renderers,
	// which do not carry the engine globals.
	chrome map[string]any
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = defaultHelpPolicy()
	}

	globals := chromeData(cfg.stylesheets, cfg.inlineStyles)
	renderer := cfg.templateRenderer
	injected := renderer != nil
	if !injected {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithGlobalData(globals),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates: renderer,
		policy:    cfg.policy,
	}
	if injected {
		r.chrome = globals
	}
	return r, nil
}

// chromeData holds the template values that do not change between renders.
func chromeData(stylesheets []string, inlineStyles bool) map[string]any {
	links := make([]any, 0, len(stylesheets))
	for _, href := range stylesheets {
		links = append(links, href)
	}
	styles := ""
	if inlineStyles {
		styles = defaultStylesheet()
	}
	return map[string]any{
		"busyLabel":   BusyLabel,
		"classes":     chromeClasses(),
		"styles":      styles,
		"stylesheets": links,
	}
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes FormTemplate against the view. Visible errors are shown
// next to their fields; while the view is busy the submit button is disabled
// and BusyLabel is shown.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(FormTemplate, r.templateData(view))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) templateData(view render.View) map[string]any {
	fields := make([]any, 0, len(view.Form.Fields))
	for _, field := range view.Form.Fields {
		fields = append(fields, fieldData(view, field, r.policy))
	}

	hidden := make([]any, 0, len(view.Hidden))
	for _, h := range view.Hidden {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	data := map[string]any{
		"form": map[string]any{
			"id":          view.Form.ID,
			"title":       view.Form.Title,
			"description": view.Form.Description,
		},
		"fields":      fields,
		"hidden":      hidden,
		"method":      view.Method,
		"action":      view.Action,
		"busy":        view.Busy,
		"submitLabel": view.SubmitLabel(),
	}
	for key, value := range r.chrome {
		data[key] = value
	}
	return data
}
