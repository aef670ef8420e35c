package acts

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Ensemble holds the background sounds of a book.
type Ensemble struct {
	specs   []domain.SoundSpec
	factory ports.PlayerFactory
	sounds  []*Sound
}

// NewEnsemble opens a player for every spec.
func NewEnsemble(specs []domain.SoundSpec, factory ports.PlayerFactory) (*Ensemble, error) {
	e := &Ensemble{specs: specs, factory: factory}
	sounds, err := e.open()
	if err != nil {
		return nil, err
	}
	e.sounds = sounds
	return e, nil
}

func (e *Ensemble) open() ([]*Sound, error) {
	sounds := make([]*Sound, 0, len(e.specs))
	for i, spec := range e.specs {
		player, err := e.factory.Open(spec)
		if err != nil {
			for _, s := range sounds {
				_ = s.Close()
			}
			return nil, fmt.Errorf("failed to open sound %d (%s): %w", i, spec.Source, err)
		}
		sounds = append(sounds, NewSound(spec, player))
	}
	return sounds, nil
}

// Len returns the number of sounds.
func (e *Ensemble) Len() int {
	return len(e.sounds)
}

// Sound returns the sound at index i.
func (e *Ensemble) Sound(i int) *Sound {
	return e.sounds[i]
}

// TransitionTo activates the listed sounds and cancels all others.
// Listed sounds that are already active continue uninterrupted.
func (e *Ensemble) TransitionTo(listed []int) error {
	var errs []error
	for i, s := range e.sounds {
		if slices.Contains(listed, i) {
			continue
		}
		if done, _ := s.Done(); !done {
			if err := s.Cancel(); err != nil {
				errs = append(errs, fmt.Errorf("sound %d: %w", i, err))
			}
		}
	}
	for _, i := range listed {
		if i < 0 || i >= len(e.sounds) {
			errs = append(errs, fmt.Errorf("sound %d: %w", i, domain.ErrUnknownSound))
			continue
		}
		if err := e.sounds[i].Activate(); err != nil {
			errs = append(errs, fmt.Errorf("sound %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Update advances every sound.
func (e *Ensemble) Update() error {
	var errs []error
	for i, s := range e.sounds {
		if err := s.Update(); err != nil {
			errs = append(errs, fmt.Errorf("sound %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// NonLoopSoundsIdle reports whether every sound that does not loop is done.
// Loops never keep the ensemble busy.
func (e *Ensemble) NonLoopSoundsIdle() bool {
	for _, s := range e.sounds {
		if s.Spec().IsLoop() {
			continue
		}
		if done, _ := s.Done(); !done {
			return false
		}
	}
	return true
}

// CancelAll cancels every sound.
func (e *Ensemble) CancelAll() error {
	var errs []error
	for i, s := range e.sounds {
		if err := s.Cancel(); err != nil {
			errs = append(errs, fmt.Errorf("sound %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Reset rewinds every sound. Players are kept, so resetting never opens
// media again.
func (e *Ensemble) Reset() error {
	var errs []error
	for i, s := range e.sounds {
		if err := s.Rewind(); err != nil {
			errs = append(errs, fmt.Errorf("sound %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Close cancels and releases every sound.
func (e *Ensemble) Close() error {
	var errs []error
	for i, s := range e.sounds {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sound %d: %w", i, err))
		}
	}
	e.sounds = nil
	return errors.Join(errs...)
}
