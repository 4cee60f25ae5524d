package render

import (
	"context"
	"io"
)

// Renderer turns a View into a byte representation (HTML, plain text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View) ([]byte, error)
}

// Presenter displays a View. Interactive front ends implement it directly;
// static renderers are wrapped with WriterPresenter.
type Presenter interface {
	Present(ctx context.Context, view View) error
}

// PresenterFunc adapts a function into a Presenter.
type PresenterFunc func(ctx context.Context, view View) error

// Present calls the underlying function.
func (fn PresenterFunc) Present(ctx context.Context, view View) error {
	return fn(ctx, view)
}

// WriterPresenter renders every view and writes the output to W.
type WriterPresenter struct {
	Renderer Renderer
	W        io.Writer
}

// Present implements Presenter.
func (p WriterPresenter) Present(ctx context.Context, view View) error {
	out, err := p.Renderer.Render(ctx, view)
	if err != nil {
		return err
	}
	_, err = p.W.Write(out)
	return err
}
