package form

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// SubmitStatus describes what Submit did with a request.
type SubmitStatus int

const (
	// SubmitIgnored means a submission was already in flight.
	SubmitIgnored SubmitStatus = iota
	// SubmitRejected means validation failed; the action was not called.
	SubmitRejected
	// SubmitAccepted means the action was invoked.
	SubmitAccepted
)

func (s SubmitStatus) String() string {
	switch s {
	case SubmitIgnored:
		return "ignored"
	case SubmitRejected:
		return "rejected"
	case SubmitAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// Result is returned by Submit. Done is set only for accepted submissions and
// receives exactly one Outcome.
type Result struct {
	Status SubmitStatus
	ID     string
	Errors model.FormErrors
	Done   <-chan Outcome
}

// Outcome describes an acknowledged submission. Discarded is set when the form
// was reset while the submission was in flight; such outcomes are not
// reported. Secrets names the fields bound to a password control.
type Outcome struct {
	ID        string
	Values    model.Values
	Secrets   []string
	Err       error
	Started   time.Time
	Finished  time.Time
	Discarded bool
}

// Succeeded reports whether the action acknowledged without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && !o.Discarded
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithReporter sets the reporter that surfaces outcomes.
func WithReporter(reporter Reporter) ControllerOption {
	return func(c *Controller) {
		c.reporter = reporter
	}
}

// WithIDGenerator overrides submission ID generation. Defaults to uuid.
func WithIDGenerator(fn func() string) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithClock overrides the time source used for outcome timestamps.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller runs the submit lifecycle against a Store.
type Controller struct {
	store    *Store
	action   Action
	reporter Reporter
	newID    func() string
	now      func() time.Time
	secrets  []string
}

// NewController binds action to store. A nil action acknowledges immediately.
func NewController(store *Store, action Action, opts ...ControllerOption) *Controller {
	if action == nil {
		action = ActionFunc(func(_ context.Context, _ model.Values, ack Ack) { ack(nil) })
	}
	c := &Controller{
		store:  store,
		action: action,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, field := range store.Form().Fields {
		if field.Control == model.ControlPassword {
			c.secrets = append(c.secrets, field.Name)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Store returns the store the controller drives.
func (c *Controller) Store() *Store {
	return c.store
}

// Submit attempts to submit the current values. While a submission is in
// flight the request is ignored. Otherwise every field is marked touched and
// the form re-validated; with errors the request is rejected and the status is
// left alone, without errors the status moves to in_flight and the action is
// invoked with a snapshot of the values.
func (c *Controller) Submit(ctx context.Context) Result {
	s := c.store

	s.mu.Lock()
	if s.status.current() == StatusInFlight {
		s.mu.Unlock()
		s.logger.Debugw("form submit ignored while in flight", "form", s.form.ID)
		s.metrics.observeSubmit(SubmitIgnored)
		return Result{Status: SubmitIgnored}
	}

	check := s.engine.Check(s.values)
	s.errors = issuesToErrors(check.Issues)
	for name := range s.fields {
		s.touched[name] = true
	}
	s.submitCount++

	if !check.Valid {
		errs := s.errors.Clone()
		snap, observers := s.snapshotLocked(), s.observersLocked()
		s.mu.Unlock()

		s.logger.Infow("form submit rejected", "form", s.form.ID, "fields", errs.Fields())
		s.metrics.observeSubmit(SubmitRejected)
		s.metrics.observeIssues(check.Issues)
		notify(observers, snap)
		return Result{Status: SubmitRejected, Errors: errs}
	}

	if err := s.status.fire(eventSubmit); err != nil {
		s.mu.Unlock()
		s.logger.Errorw("form submit", "form", s.form.ID, "error", err)
		return Result{Status: SubmitIgnored}
	}
	generation := s.generation
	values := s.values
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	id := c.newID()
	started := c.now()
	s.logger.Infow("form submit accepted", "form", s.form.ID, "submission", id)
	s.metrics.observeSubmit(SubmitAccepted)
	notify(observers, snap)

	done := make(chan Outcome, 1)
	var once sync.Once
	ack := func(err error) {
		once.Do(func() {
			outcome := Outcome{
				ID:       id,
				Values:   values,
				Secrets:  c.secrets,
				Err:      err,
				Started:  started,
				Finished: c.now(),
			}
			c.finish(ctx, generation, outcome, done)
		})
	}
	c.action.Submit(ctx, values, ack)

	return Result{Status: SubmitAccepted, ID: id, Done: done}
}

// finish moves in_flight to completed, reports the outcome and settles back
// to idle. Acks that arrive after a reset are discarded.
func (c *Controller) finish(ctx context.Context, generation uint64, outcome Outcome, done chan<- Outcome) {
	s := c.store
	defer func() { done <- outcome }()

	s.mu.Lock()
	if generation != s.generation || s.status.current() != StatusInFlight {
		s.mu.Unlock()
		outcome.Discarded = true
		s.logger.Debugw("form ack discarded", "form", s.form.ID, "submission", outcome.ID)
		s.metrics.observeOutcome(outcome)
		return
	}
	if err := s.status.fire(eventComplete); err != nil {
		s.logger.Errorw("form complete", "form", s.form.ID, "error", err)
	}
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	if outcome.Err != nil {
		s.logger.Warnw("form submission failed", "form", s.form.ID, "submission", outcome.ID, "error", outcome.Err)
	} else {
		s.logger.Infow("form submission completed", "form", s.form.ID, "submission", outcome.ID)
	}
	s.metrics.observeOutcome(outcome)
	notify(observers, snap)

	if c.reporter != nil {
		c.reporter.Report(context.WithoutCancel(ctx), outcome)
	}

	s.mu.Lock()
	if generation != s.generation || s.status.current() != StatusCompleted {
		s.mu.Unlock()
		return
	}
	if err := s.status.fire(eventSettle); err != nil {
		s.logger.Errorw("form settle", "form", s.form.ID, "error", err)
	}
	snap, observers = s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
}

func issuesToErrors(issues []validation.Issue) model.FormErrors {
	errs := make(model.FormErrors, len(issues))
	for _, issue := range issues {
		errs[issue.Field] = issue.Message
	}
	return errs
}
