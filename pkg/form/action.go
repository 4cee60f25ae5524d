package form

import (
	"context"
	"time"

	"github.com/goliatone/go-formkit/pkg/model"
)

// DefaultDelay is how long DelayedAction waits before acknowledging.
const DefaultDelay = 500 * time.Millisecond

// Ack acknowledges a submission. A nil error reports success. Only the first
// call has any effect.
type Ack func(error)

// Action receives accepted submissions. Implementations must not block the
// caller; ack may be invoked from any goroutine, now or later.
type Action interface {
	Submit(ctx context.Context, values model.Values, ack Ack)
}

// ActionFunc adapts a function into an Action.
type ActionFunc func(ctx context.Context, values model.Values, ack Ack)

// Submit calls the underlying function.
func (fn ActionFunc) Submit(ctx context.Context, values model.Values, ack Ack) {
	fn(ctx, values, ack)
}

// DelayedAction simulates a remote call: it waits Delay and acknowledges
// success. If ctx ends first the ack carries ctx.Err().
type DelayedAction struct {
	Delay time.Duration
}

// Submit implements Action.
func (a DelayedAction) Submit(ctx context.Context, _ model.Values, ack Ack) {
	delay := a.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			ack(nil)
		case <-ctx.Done():
			ack(ctx.Err())
		}
	}()
}

// Reporter surfaces the outcome of an acknowledged submission to the user.
type Reporter interface {
	Report(ctx context.Context, outcome Outcome)
}

// ReporterFunc adapts a function into a Reporter.
type ReporterFunc func(ctx context.Context, outcome Outcome)

// Report calls the underlying function.
func (fn ReporterFunc) Report(ctx context.Context, outcome Outcome) {
	fn(ctx, outcome)
}
