// Package lifecycle tracks the phases a controller walks through while
// handling one request. A Machine is created per request and discarded on
// return; it never outlives the request that created it.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Request phases.
const (
	StateIdle        = "idle"
	StateRendering   = "rendering"
	StateValidating  = "validating"
	StateDispatching = "dispatching"
	StateSuccess     = "success"
	StateRedisplay   = "redisplay"
)

// Events accepted by Fire.
const (
	// EventRender starts an unbound render (GET).
	EventRender = "render"
	// EventSubmit starts validating an atomic submission.
	EventSubmit = "submit"
	// EventDispatch starts looking for a submission marker.
	EventDispatch = "dispatch"
	// EventMatch moves a dispatch onto validation of the matched entry.
	EventMatch = "match"
	// EventMiss ends a dispatch that found no marker.
	EventMiss = "miss"
	// EventValid and EventInvalid close validation.
	EventValid   = "valid"
	EventInvalid = "invalid"
)

var transitions = fsm.Events{
	{Name: EventRender, Src: []string{StateIdle}, Dst: StateRendering},
	{Name: EventSubmit, Src: []string{StateIdle}, Dst: StateValidating},
	{Name: EventDispatch, Src: []string{StateIdle}, Dst: StateDispatching},
	{Name: EventMatch, Src: []string{StateDispatching}, Dst: StateValidating},
	{Name: EventMiss, Src: []string{StateDispatching}, Dst: StateRedisplay},
	{Name: EventValid, Src: []string{StateValidating}, Dst: StateSuccess},
	{Name: EventInvalid, Src: []string{StateValidating}, Dst: StateRedisplay},
}

// Machine wraps a looplab/fsm instance for a single request.
type Machine struct {
	fsm *fsm.FSM
}

// New returns a machine in StateIdle. Transitions are logged at debug level.
func New(logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		fsm: fsm.NewFSM(
			StateIdle,
			transitions,
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					logger.Debug("request phase",
						zap.String("event", e.Event),
						zap.String("from", e.Src),
						zap.String("to", e.Dst),
					)
				},
			},
		),
	}
}

// Fire applies event. An error means the caller attempted a transition the
// request lifecycle does not allow.
func (m *Machine) Fire(ctx context.Context, event string) error {
	from := m.fsm.Current()
	if err := m.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("lifecycle: %s from %s: %w", event, from, err)
	}
	return nil
}

// Current returns the current phase.
func (m *Machine) Current() string {
	return m.fsm.Current()
}
