package acts

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Actuators is the responder that turns states into acts.
type Actuators struct {
	phone   ports.Phone
	voice   ports.Voice
	clock   domain.Clock
	logger  *slog.Logger
	factory ports.PlayerFactory

	ensemble *Ensemble
	active   []ports.Act
	closed   bool
}

var _ ports.Responder = (*Actuators)(nil)

// Option configures Actuators.
type Option func(*Actuators)

// WithPhone makes states with a ring time ring this phone.
// Without a phone, ringing is replaced by waiting.
func WithPhone(p ports.Phone) Option {
	return func(a *Actuators) { a.phone = p }
}

// WithVoice sets the voice used for state speech.
func WithVoice(v ports.Voice) Option {
	return func(a *Actuators) { a.voice = v }
}

// WithPlayerFactory sets how sound players are created.
func WithPlayerFactory(f ports.PlayerFactory) Option {
	return func(a *Actuators) { a.factory = f }
}

// WithClock sets the clock for ringing and waiting.
func WithClock(c domain.Clock) Option {
	return func(a *Actuators) { a.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Actuators) { a.logger = l }
}

// NewActuators prepares acts for a book with the given sounds.
// It fails if a sound cannot be opened.
func NewActuators(sounds []domain.SoundSpec, opts ...Option) (*Actuators, error) {
	a := &Actuators{
		clock:  domain.RealClock{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.factory == nil {
		if len(sounds) > 0 {
			return nil, errors.New("book has sounds but no player factory was configured")
		}
		a.factory = noPlayers{}
	}

	ensemble, err := NewEnsemble(sounds, a.factory)
	if err != nil {
		return nil, err
	}
	a.ensemble = ensemble
	return a, nil
}

// Ensemble exposes the background sounds.
func (a *Actuators) Ensemble() *Ensemble {
	return a.ensemble
}

// Respond reacts to machine events.
func (a *Actuators) Respond(evt domain.Event) error {
	if a.closed {
		return errors.New("actuators closed")
	}
	switch evt.Kind {
	case domain.EventStart:
		a.cancelActive()
		resetErr := a.ensemble.Reset()
		return errors.Join(resetErr, a.transition(evt.To))
	case domain.EventTransition:
		if evt.Restarts {
			// entered by the Start that follows
			return nil
		}
		return a.transition(evt.To)
	default:
		return nil
	}
}

func (a *Actuators) acts(state *domain.State) []ports.Act {
	var acts []ports.Act
	if state.Speech != "" {
		if a.voice != nil {
			acts = append(acts, NewSpeech(a.voice, state.Speech))
		} else {
			a.logger.Info("Speech", "state", state.ID, "text", state.Speech)
		}
	}
	if state.RingTime > 0 {
		if a.phone != nil {
			acts = append(acts, NewRing(a.phone, state.RingTime, a.clock))
		} else {
			acts = append(acts, NewWait(state.RingTime, a.clock))
		}
	}
	return acts
}

func (a *Actuators) cancelActive() {
	var errs []error
	for _, act := range a.active {
		if err := act.Cancel(); err != nil {
			errs = append(errs, err)
		}
	}
	a.active = nil
	if len(errs) > 0 {
		a.logger.Warn("Failed to cancel acts of previous state", "err", errors.Join(errs...))
	}
}

func (a *Actuators) transition(to *domain.State) error {
	// 1. Build the acts of the next state
	next := a.acts(to)

	// 2. Silence the previous state, failures do not stop the transition
	a.cancelActive()

	// 3. Start the next state
	var errs []error
	for _, act := range next {
		if err := act.Activate(); err != nil {
			errs = append(errs, err)
			continue
		}
		a.active = append(a.active, act)
	}

	// 4. Move the background sounds along
	if err := a.ensemble.TransitionTo(to.Sounds); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("entering %s: %w", to.ID, errors.Join(errs...))
	}
	return nil
}

// Update advances all acts and sounds. It is idle once no act remains and
// every non-looping sound has finished.
func (a *Actuators) Update() (domain.ResponderState, error) {
	var errs []error
	remaining := a.active[:0]
	for _, act := range a.active {
		if err := act.Update(); err != nil {
			errs = append(errs, err)
			a.logger.Warn("Act update failed, dropping it", "err", err)
			continue
		}
		done, err := act.Done()
		if err != nil {
			errs = append(errs, err)
			a.logger.Warn("Act could not report completion, dropping it", "err", err)
			continue
		}
		if !done {
			remaining = append(remaining, act)
		}
	}
	clear(a.active[len(remaining):])
	a.active = remaining

	if err := a.ensemble.Update(); err != nil {
		errs = append(errs, err)
	}

	state := domain.Running
	if len(a.active) == 0 && a.ensemble.NonLoopSoundsIdle() {
		state = domain.Idle
	}
	return state, errors.Join(errs...)
}

// Close cancels everything and releases the sounds. The bell is always
// silenced, even if cancelling failed.
func (a *Actuators) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	for _, act := range a.active {
		if err := act.Cancel(); err != nil {
			errs = append(errs, err)
		}
	}
	a.active = nil

	if err := a.ensemble.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.phone != nil {
		if err := a.phone.Unring(); err != nil {
			errs = append(errs, fmt.Errorf("failed to silence bell: %w", err))
		}
	}
	return errors.Join(errs...)
}

type noPlayers struct{}

func (noPlayers) Open(spec domain.SoundSpec) (ports.Player, error) {
	return nil, fmt.Errorf("no player for %s", spec.Source)
}
