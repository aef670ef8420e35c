package acts

import (
	"fmt"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Sound plays background music or noise for as long as it is activated.
type Sound struct {
	spec   domain.SoundSpec
	player ports.Player

	activated      bool
	neverActivated bool
}

var _ ports.Act = (*Sound)(nil)

// NewSound creates a paused sound for spec, played back by player.
func NewSound(spec domain.SoundSpec, player ports.Player) *Sound {
	return &Sound{spec: spec, player: player, neverActivated: true}
}

// Spec returns the sound's configuration.
func (s *Sound) Spec() domain.SoundSpec {
	return s.spec
}

// Activate starts playback, continuing without a seek if already active.
func (s *Sound) Activate() error {
	wasActive := s.activated
	s.activated = true
	if err := s.seekOnEnter(wasActive); err != nil {
		return err
	}
	s.neverActivated = false
	if err := s.player.Play(); err != nil {
		return fmt.Errorf("failed to play %s: %w", s.spec.Source, err)
	}
	return nil
}

func (s *Sound) seekOnEnter(wasActive bool) error {
	if wasActive {
		return nil
	}
	if s.neverActivated {
		return s.player.Seek(s.spec.StartOffset)
	}

	switch s.spec.Reenter.Kind {
	case domain.ReenterBackoff:
		return s.player.Seek(s.backoffPosition(s.spec.Reenter.Backoff))
	default:
		if s.spec.IsLoop() {
			// loops resume where they were paused
			return nil
		}
		return s.player.Seek(s.spec.StartOffset)
	}
}

// backoffPosition computes where to resume after going back by b.
//
// Non-looping sounds never go back before the start offset. Looping sounds
// are treated as circular and wrap around the end of the media.
func (s *Sound) backoffPosition(b time.Duration) time.Duration {
	played := s.player.Played()

	if !s.spec.IsLoop() {
		if b > played {
			return s.spec.StartOffset
		}
		return max(s.spec.StartOffset, played-b)
	}

	duration := s.player.Duration()
	if duration > 0 {
		b %= duration
	}
	if b > played {
		return duration - (b - played)
	}
	return played - b
}

// Update restarts loops that reached the end and deactivates sounds that
// finished.
func (s *Sound) Update() error {
	playing, err := s.player.Playing()
	if err != nil {
		return err
	}
	if playing {
		return nil
	}

	if s.spec.IsLoop() && s.activated {
		if err := s.player.Seek(0); err != nil {
			return err
		}
		return s.player.Play()
	}
	s.activated = false
	return nil
}

// Cancel pauses playback so it can be resumed by a later activation.
func (s *Sound) Cancel() error {
	s.activated = false
	return s.player.Pause()
}

// Rewind pauses the sound and moves it back to the beginning. The next
// activation behaves like the first one.
func (s *Sound) Rewind() error {
	s.activated = false
	s.neverActivated = true
	if err := s.player.Pause(); err != nil {
		return fmt.Errorf("failed to pause %s: %w", s.spec.Source, err)
	}
	return s.player.Seek(0)
}

// Done reports whether the sound is inactive.
func (s *Sound) Done() (bool, error) {
	return !s.activated, nil
}

// Played returns the playback position.
func (s *Sound) Played() time.Duration {
	return s.player.Played()
}

// Close releases the player.
func (s *Sound) Close() error {
	s.activated = false
	return s.player.Close()
}
