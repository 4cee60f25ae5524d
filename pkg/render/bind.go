package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/form"
)

// BindOption customises Bind.
type BindOption func(*binding)

type binding struct {
	options RenderOptions
	onError func(error)
	initial bool
}

// WithRenderOptions passes options through to every View.
func WithRenderOptions(opts RenderOptions) BindOption {
	return func(b *binding) {
		b.options = opts
	}
}

// WithErrorHandler receives presenter failures. By default they are dropped.
func WithErrorHandler(fn func(error)) BindOption {
	return func(b *binding) {
		if fn != nil {
			b.onError = fn
		}
	}
}

// WithoutInitialPresent skips presenting the current state on bind.
func WithoutInitialPresent() BindOption {
	return func(b *binding) {
		b.initial = false
	}
}

// Bind presents the current state and then every change the store signals.
// The returned function stops further presentation. Notifications received
// after ctx ends are ignored.
func Bind(ctx context.Context, store *form.Store, presenter Presenter, opts ...BindOption) func() {
	b := &binding{onError: func(error) {}, initial: true}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	def := store.Form()
	present := func(snap form.Snapshot) {
		if ctx.Err() != nil {
			return
		}
		if err := presenter.Present(ctx, ViewFromSnapshot(def, snap, b.options)); err != nil {
			b.onError(err)
		}
	}

	unsubscribe := store.Subscribe(present)
	if b.initial {
		present(store.Snapshot())
	}
	return unsubscribe
}
