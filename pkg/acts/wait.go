package acts

import (
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Wait does nothing for a duration. It stands in for Ring when no bell is
// connected so that timing stays the same.
type Wait struct {
	clock    domain.Clock
	start    time.Time
	duration time.Duration
	done     bool
}

var _ ports.Act = (*Wait)(nil)

// NewWait starts waiting immediately. A zero duration is done at once.
func NewWait(duration time.Duration, clock domain.Clock) *Wait {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Wait{
		clock:    clock,
		start:    clock.Now(),
		duration: duration,
		done:     duration == 0,
	}
}

func (w *Wait) Activate() error { return nil }

// Update marks the wait done once the duration has passed.
func (w *Wait) Update() error {
	if !w.done && w.clock.Now().Sub(w.start) > w.duration {
		w.done = true
	}
	return nil
}

func (w *Wait) Cancel() error {
	w.done = true
	return nil
}

func (w *Wait) Done() (bool, error) {
	return w.done, nil
}
