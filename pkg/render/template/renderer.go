package template

import (
	"io"
)

// TemplateRenderer is the engine seam the HTML renderer relies on.
// RenderTemplate executes a named template, returns the output and copies it
// to every writer.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
