package acts

import (
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Ring rings the bell of the phone for a fixed duration.
type Ring struct {
	phone    ports.Phone
	clock    domain.Clock
	duration time.Duration

	start   time.Time
	ringing bool
	done    bool
}

var _ ports.Act = (*Ring)(nil)

// NewRing prepares ringing phone for duration. Nothing rings before Activate.
func NewRing(phone ports.Phone, duration time.Duration, clock domain.Clock) *Ring {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Ring{phone: phone, clock: clock, duration: duration}
}

// Activate starts the bell once.
func (r *Ring) Activate() error {
	if r.ringing || r.done {
		return nil
	}
	if err := r.phone.Ring(); err != nil {
		return err
	}
	r.ringing = true
	r.start = r.clock.Now()
	return nil
}

// Update silences the bell once the duration has passed.
func (r *Ring) Update() error {
	if !r.ringing || r.done {
		return nil
	}
	if r.clock.Now().Sub(r.start) > r.duration {
		return r.Cancel()
	}
	return nil
}

// Cancel silences the bell.
func (r *Ring) Cancel() error {
	if r.done {
		return nil
	}
	if err := r.phone.Unring(); err != nil {
		return err
	}
	r.ringing = false
	r.done = true
	return nil
}

// Done reports whether the bell was silenced.
func (r *Ring) Done() (bool, error) {
	return r.done, nil
}
