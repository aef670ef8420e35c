// Package runtime contains the state machine that drives a phonebook.
package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// InputSource is polled once per tick for dial input.
type InputSource interface {
	Poll() (domain.Input, bool)
}

// Machine is a Mealy machine over the states of a phonebook.
//
// Each tick consumes at most one symbol. Dial input takes priority over
// timeouts, timeouts over end transitions.
type Machine struct {
	sensors   InputSource
	responder ports.Responder
	states    []domain.State
	current   int

	// idleSince is when the responder was first seen idle after the last
	// transition. Zero while it has not been idle.
	idleSince time.Time

	clock  domain.Clock
	logger *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the time source for idle tracking.
func WithClock(c domain.Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// NewMachine validates the transitions of states and enters the initial
// state at index 0, emitting Start to the responder. Sound references are
// not checked here, they belong to the book and the responder playing it.
func NewMachine(sensors InputSource, responder ports.Responder, states []domain.State, opts ...Option) (*Machine, error) {
	if err := domain.ValidateStates(states); err != nil {
		return nil, err
	}
	m := &Machine{
		sensors:   sensors,
		responder: responder,
		states:    states,
		clock:     domain.RealClock{},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Reset()
	return m, nil
}

// Update runs one tick. It returns false once a terminal state is current.
func (m *Machine) Update() bool {
	if m.IsTerminal() {
		return false
	}

	idle := m.actuate()
	if sym, to, ok := m.resolve(idle); ok {
		m.transition(sym, to)
	}
	return !m.IsTerminal()
}

// actuate advances the responder and reports whether it is idle.
func (m *Machine) actuate() bool {
	state, err := m.responder.Update()
	if err != nil {
		m.logger.Error("Responder update failed", "state", m.Current().ID, "err", err)
	}
	if state != domain.Idle {
		return false
	}
	if m.idleSince.IsZero() {
		m.logger.Debug("Actuators idle", "state", m.Current().ID)
		m.idleSince = m.clock.Now()
	}
	return true
}

func (m *Machine) resolve(idle bool) (domain.Symbol, int, bool) {
	state := m.Current()

	// 1. Dial input, never starved by a due timeout
	if in, ok := m.sensors.Poll(); ok {
		to, found := state.TransitionForInput(in)
		if !found {
			m.logger.Debug("Ignoring input without transition", "state", state.ID, "input", in)
		}
		return domain.Dial(in), to, found
	}

	if !idle {
		return domain.Symbol{}, 0, false
	}
	idleFor := m.clock.Now().Sub(m.idleSince)

	// 2. Timeout after being idle long enough
	if to, ok := state.TransitionForTimeout(idleFor); ok {
		return domain.Done(idleFor), to, true
	}

	// 3. End, as soon as the actuators are idle
	if to, ok := state.TransitionEnd(); ok {
		return domain.Done(idleFor), to, true
	}
	return domain.Symbol{}, 0, false
}

func (m *Machine) transition(cause domain.Symbol, to int) {
	from := m.Current()
	m.current = to
	next := m.Current()
	m.idleSince = time.Time{}

	m.logger.Debug("Transition", "from", from.ID, "to", next.ID, "cause", cause)
	if to == 0 {
		m.respond(domain.RestartEvent(cause, from, next))
		m.respond(domain.StartEvent(next))
	} else {
		m.respond(domain.TransitionEvent(cause, from, next))
	}
	if next.Terminal {
		m.respond(domain.FinishEvent(next))
	}
}

func (m *Machine) respond(evt domain.Event) {
	if err := m.responder.Respond(evt); err != nil {
		m.logger.Warn("Responder failed", "event", evt.Kind, "state", evt.To.ID, "err", err)
	}
}

// Reset enters the initial state and emits Start, and Finish if the
// initial state is terminal.
func (m *Machine) Reset() {
	m.current = 0
	m.idleSince = time.Time{}

	initial := m.Current()
	m.respond(domain.StartEvent(initial))
	if initial.Terminal {
		m.respond(domain.FinishEvent(initial))
	}
}

// Load replaces states and responder and enters the new initial state.
// The sensors keep running. The previous responder is closed if possible.
// On error nothing changes.
func (m *Machine) Load(responder ports.Responder, states []domain.State) error {
	if err := domain.ValidateStates(states); err != nil {
		return fmt.Errorf("refusing to load states: %w", err)
	}
	if err := m.closeResponder(); err != nil {
		m.logger.Warn("Failed to close previous responder", "err", err)
	}
	m.responder = responder
	m.states = states
	m.Reset()
	return nil
}

func (m *Machine) closeResponder() error {
	if closer, ok := m.responder.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Close closes the responder if it can be closed.
func (m *Machine) Close() error {
	return m.closeResponder()
}

// Current returns the current state.
func (m *Machine) Current() *domain.State {
	return &m.states[m.current]
}

// CurrentIndex returns the index of the current state.
func (m *Machine) CurrentIndex() int {
	return m.current
}

// IsTerminal reports whether the current state is terminal.
func (m *Machine) IsTerminal() bool {
	return m.Current().Terminal
}

// States returns the state table.
func (m *Machine) States() []domain.State {
	return m.states
}

// Responder returns the responder events are sent to.
func (m *Machine) Responder() ports.Responder {
	return m.responder
}
