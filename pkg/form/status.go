package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Status is the submission lifecycle state of a form.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusInFlight  Status = "in_flight"
	StatusCompleted Status = "completed"
)

const (
	eventSubmit   = "submit"
	eventComplete = "complete"
	eventSettle   = "settle"
	eventReset    = "reset"
)

// statusMachine wraps the fsm driving Status. Callers serialise access through
// the store mutex; callbacks only log and never fire events themselves.
type statusMachine struct {
	fsm *fsm.FSM
}

func newStatusMachine(formID string, logger *zap.SugaredLogger) *statusMachine {
	idle, inFlight, completed := string(StatusIdle), string(StatusInFlight), string(StatusCompleted)
	machine := fsm.NewFSM(
		idle,
		fsm.Events{
			{Name: eventSubmit, Src: []string{idle, completed}, Dst: inFlight},
			{Name: eventComplete, Src: []string{inFlight}, Dst: completed},
			{Name: eventSettle, Src: []string{completed}, Dst: idle},
			{Name: eventReset, Src: []string{idle, inFlight, completed}, Dst: idle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debugf("form %s: %s -> %s on %s", formID, e.Src, e.Dst, e.Event)
			},
		},
	)
	return &statusMachine{fsm: machine}
}

func (m *statusMachine) current() Status {
	return Status(m.fsm.Current())
}

// fire applies event. Self transitions (reset while idle) are not errors.
func (m *statusMachine) fire(event string) error {
	err := m.fsm.Event(context.Background(), event)
	if err == nil {
		return nil
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return fmt.Errorf("form: status %s on %s: %w", m.fsm.Current(), event, err)
}
