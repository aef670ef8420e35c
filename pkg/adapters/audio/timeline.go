// Package audio provides ports.Player implementations.
//
// Timeline tracks a playback position against a clock without producing
// sound. It is used when no playback command is configured and as the
// position model of CommandPlayer.
package audio

import (
	"sync"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Timeline is a silent player of a known duration.
type Timeline struct {
	mu       sync.Mutex
	clock    domain.Clock
	duration time.Duration
	// position is the playback position at startedAt, or the frozen
	// position while paused.
	position  time.Duration
	startedAt time.Time
	playing   bool
}

var _ ports.Player = (*Timeline)(nil)

// NewTimeline creates a paused timeline at position zero.
func NewTimeline(duration time.Duration, clock domain.Clock) *Timeline {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Timeline{clock: clock, duration: duration}
}

func (t *Timeline) played() time.Duration {
	if !t.playing {
		return t.position
	}
	pos := t.position + t.clock.Now().Sub(t.startedAt)
	if pos > t.duration {
		return t.duration
	}
	return pos
}

// Play starts or continues playback. Playing at the end finishes at once.
func (t *Timeline) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.playing && t.played() < t.duration {
		return nil
	}
	t.position = t.played()
	t.startedAt = t.clock.Now()
	t.playing = true
	return nil
}

// Pause freezes the position.
func (t *Timeline) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = t.played()
	t.playing = false
	return nil
}

// Seek moves to pos, clamped to the duration.
func (t *Timeline) Seek(pos time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seek(pos)
	return nil
}

func (t *Timeline) seek(pos time.Duration) {
	if pos > t.duration {
		pos = t.duration
	}
	if pos < 0 {
		pos = 0
	}
	t.position = pos
	t.startedAt = t.clock.Now()
}

// Playing is false once the end has been reached.
func (t *Timeline) Playing() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing && t.played() < t.duration, nil
}

// Played returns the current position.
func (t *Timeline) Played() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.played()
}

// Duration returns the media length.
func (t *Timeline) Duration() time.Duration {
	return t.duration
}

// Close pauses the timeline.
func (t *Timeline) Close() error {
	return t.Pause()
}
