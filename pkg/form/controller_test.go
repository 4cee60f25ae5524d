package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
)

// heldAction records submissions and keeps their acks for the test to fire.
type heldAction struct {
	mu     sync.Mutex
	calls  int
	values []model.Values
	acks   []form.Ack
}

func (a *heldAction) Submit(_ context.Context, values model.Values, ack form.Ack) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.values = append(a.values, values)
	a.acks = append(a.acks, ack)
}

func (a *heldAction) ack(t *testing.T, idx int, err error) {
	t.Helper()
	a.mu.Lock()
	if idx >= len(a.acks) {
		a.mu.Unlock()
		t.Fatalf("no ack at index %d", idx)
	}
	ack := a.acks[idx]
	a.mu.Unlock()
	ack(err)
}

func waitOutcome(t *testing.T, result form.Result) form.Outcome {
	t.Helper()
	if result.Done == nil {
		t.Fatalf("expected Done channel for %s submission", result.Status)
	}
	select {
	case outcome := <-result.Done:
		return outcome
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for outcome")
	}
	return form.Outcome{}
}

func TestController_InitialSubmitIsRejected(t *testing.T) {
	store := newStore(t)
	action := &heldAction{}
	ctrl := form.NewController(store, action)

	result := ctrl.Submit(context.Background())
	if result.Status != form.SubmitRejected {
		t.Fatalf("expected rejected, got %s", result.Status)
	}
	if diff := cmp.Diff(model.FormErrors{"email": "Required"}, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	snap := store.Snapshot()
	if snap.Status != form.StatusIdle {
		t.Fatalf("expected idle after rejection, got %s", snap.Status)
	}
	if snap.SubmitCount != 1 {
		t.Fatalf("expected submit count 1, got %d", snap.SubmitCount)
	}
	if diff := cmp.Diff(model.FormErrors{"email": "Required"}, snap.VisibleErrors); diff != "" {
		t.Fatalf("visible errors mismatch (-want +got):\n%s", diff)
	}
	if len(snap.Touched) != 5 {
		t.Fatalf("expected all fields touched, got %v", snap.Touched)
	}
	if action.calls != 0 {
		t.Fatalf("action must not run on invalid form")
	}
}

func TestController_DoubleSubmitInvokesActionOnce(t *testing.T) {
	store := newStore(t)
	action := &heldAction{}
	ctrl := form.NewController(store, action)

	if err := store.SetValue("email", "user@example.com"); err != nil {
		t.Fatalf("set value: %v", err)
	}

	first := ctrl.Submit(context.Background())
	second := ctrl.Submit(context.Background())

	if first.Status != form.SubmitAccepted {
		t.Fatalf("expected first submit accepted, got %s", first.Status)
	}
	if second.Status != form.SubmitIgnored {
		t.Fatalf("expected second submit ignored, got %s", second.Status)
	}
	if second.Done != nil {
		t.Fatalf("ignored submit must not expose Done")
	}
	if action.calls != 1 {
		t.Fatalf("expected one action invocation, got %d", action.calls)
	}
	if store.Snapshot().SubmitCount != 1 {
		t.Fatalf("ignored submit must not count as an attempt")
	}

	action.ack(t, 0, nil)
	action.ack(t, 0, errors.New("late duplicate"))
	outcome := waitOutcome(t, first)
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if store.Status() != form.StatusIdle {
		t.Fatalf("expected idle, got %s", store.Status())
	}
}

func TestController_SuccessfulLifecycle(t *testing.T) {
	store := newStore(t)

	var mu sync.Mutex
	var statuses []form.Status
	store.Subscribe(func(snap form.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if len(statuses) == 0 || statuses[len(statuses)-1] != snap.Status {
			statuses = append(statuses, snap.Status)
		}
	})

	var reported []form.Outcome
	var statusAtReport form.Status
	reporter := form.ReporterFunc(func(_ context.Context, outcome form.Outcome) {
		statusAtReport = store.Status()
		reported = append(reported, outcome)
	})

	var received model.Values
	action := form.ActionFunc(func(_ context.Context, values model.Values, ack form.Ack) {
		received = values
		go ack(nil)
	})

	ctrl := form.NewController(store, action,
		form.WithReporter(reporter),
		form.WithIDGenerator(func() string { return "sub-1" }),
	)

	if err := store.SetValue("email", "user@example.com"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	result := ctrl.Submit(context.Background())
	if result.Status != form.SubmitAccepted || result.ID != "sub-1" {
		t.Fatalf("unexpected result %+v", result)
	}
	outcome := waitOutcome(t, result)

	want := map[string]any{
		"email":      "USER@EXAMPLE.COM",
		"password":   "",
		"select":     "none",
		"tags":       []string{},
		"rememberMe": true,
	}
	if diff := cmp.Diff(want, received.Map()); diff != "" {
		t.Fatalf("action values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, outcome.Values.Map()); diff != "" {
		t.Fatalf("outcome values mismatch (-want +got):\n%s", diff)
	}

	mu.Lock()
	got := append([]form.Status(nil), statuses...)
	mu.Unlock()
	if diff := cmp.Diff([]form.Status{form.StatusIdle, form.StatusInFlight, form.StatusCompleted, form.StatusIdle}, got); diff != "" {
		t.Fatalf("status sequence mismatch (-want +got):\n%s", diff)
	}

	if len(reported) != 1 || reported[0].ID != "sub-1" {
		t.Fatalf("expected one reported outcome, got %+v", reported)
	}
	if statusAtReport != form.StatusCompleted {
		t.Fatalf("expected report while completed, got %s", statusAtReport)
	}
	if store.Status() != form.StatusIdle {
		t.Fatalf("expected idle after settle, got %s", store.Status())
	}
}

func TestController_SubmitDuringReportStartsNextSubmission(t *testing.T) {
	store := newStore(t)
	action := &heldAction{}

	var ctrl *form.Controller
	var nested form.Result
	var reported []form.Outcome
	reporter := form.ReporterFunc(func(ctx context.Context, outcome form.Outcome) {
		reported = append(reported, outcome)
		if len(reported) == 1 {
			nested = ctrl.Submit(ctx)
		}
	})
	ids := []string{"sub-1", "sub-2"}
	ctrl = form.NewController(store, action,
		form.WithReporter(reporter),
		form.WithIDGenerator(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}),
	)

	if err := store.SetValue("email", "user@example.com"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	first := ctrl.Submit(context.Background())
	if first.Status != form.SubmitAccepted {
		t.Fatalf("expected first submit accepted, got %s", first.Status)
	}

	action.ack(t, 0, nil)
	if outcome := waitOutcome(t, first); outcome.ID != "sub-1" || !outcome.Succeeded() {
		t.Fatalf("unexpected first outcome %+v", outcome)
	}
	if nested.Status != form.SubmitAccepted || nested.ID != "sub-2" {
		t.Fatalf("expected submit during report to be accepted, got %+v", nested)
	}
	if action.calls != 2 {
		t.Fatalf("expected exactly one more action invocation, got %d calls", action.calls)
	}
	if store.Status() != form.StatusInFlight {
		t.Fatalf("first ack must not settle the next submission, got %s", store.Status())
	}

	action.ack(t, 1, nil)
	if outcome := waitOutcome(t, nested); outcome.ID != "sub-2" || !outcome.Succeeded() {
		t.Fatalf("unexpected second outcome %+v", outcome)
	}
	if action.calls != 2 || len(reported) != 2 {
		t.Fatalf("expected two calls and two reports, got %d and %d", action.calls, len(reported))
	}
	if store.Status() != form.StatusIdle {
		t.Fatalf("expected idle after second settle, got %s", store.Status())
	}
}

func TestController_OutcomeNamesSecretFields(t *testing.T) {
	store := newStore(t)
	ctrl := form.NewController(store, nil)

	if err := store.SetValue("email", "user@example.com"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	outcome := waitOutcome(t, ctrl.Submit(context.Background()))
	if diff := cmp.Diff([]string{"password"}, outcome.Secrets); diff != "" {
		t.Fatalf("secrets mismatch (-want +got):\n%s", diff)
	}
}

func TestController_FailedAckStillSettles(t *testing.T) {
	store := newStore(t)
	action := &heldAction{}
	var reported form.Outcome
	ctrl := form.NewController(store, action, form.WithReporter(form.ReporterFunc(func(_ context.Context, o form.Outcome) {
		reported = o
	})))

	if err := store.SetValue("email", "user@example.com"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	result := ctrl.Submit(context.Background())
	boom := errors.New("upstream unavailable")
	action.ack(t, 0, boom)

	outcome := waitOutcome(t, result)
	if !errors.Is(outcome.Err, boom) || outcome.Succeeded() {
		t.Fatalf("expected failed outcome, got %+v", outcome)
	}
	if !errors.Is(reported.Err, boom) {
		t.Fatalf("reporter did not receive failure, got %+v", reported)
	}
	if store.Status() != form.StatusIdle {
		t.Fatalf("expected idle, got %s", store.Status())
	}

	again := ctrl.Submit(context.Background())
	if again.Status != form.SubmitAccepted {
		t.Fatalf("expected resubmission to be accepted, got %s", again.Status)
	}
}

func TestController_ResetDiscardsPendingAck(t *testing.T) {
	store := newStore(t)
	action := &heldAction{}
	reports := 0
	ctrl := form.NewController(store, action, form.WithReporter(form.ReporterFunc(func(context.Context, form.Outcome) {
		reports++
	})))

	if err := store.SetValue("email", "user@example.com"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	result := ctrl.Submit(context.Background())
	if store.Status() != form.StatusInFlight {
		t.Fatalf("expected in flight, got %s", store.Status())
	}

	store.Reset()
	if store.Status() != form.StatusIdle {
		t.Fatalf("expected idle after reset, got %s", store.Status())
	}

	action.ack(t, 0, nil)
	outcome := waitOutcome(t, result)
	if !outcome.Discarded {
		t.Fatalf("expected discarded outcome, got %+v", outcome)
	}
	if reports != 0 {
		t.Fatalf("discarded outcome must not be reported")
	}
	if store.Status() != form.StatusIdle {
		t.Fatalf("stale ack changed status to %s", store.Status())
	}
}

func TestDelayedAction(t *testing.T) {
	values := model.NewValues(nil, nil)

	acked := make(chan error, 1)
	form.DelayedAction{Delay: 10 * time.Millisecond}.Submit(context.Background(), values, func(err error) { acked <- err })
	select {
	case err := <-acked:
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	form.DelayedAction{Delay: time.Hour}.Submit(ctx, values, func(err error) { acked <- err })
	select {
	case err := <-acked:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out")
	}
}
