package ports

import (
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
)

// Player plays back one media source.
type Player interface {
	Play() error
	Pause() error
	// Seek moves the playback position, clamping at the end of the media.
	Seek(pos time.Duration) error
	// Playing reports whether playback is ongoing, i.e. started and not
	// paused or finished.
	Playing() (bool, error)
	// Played returns the current playback position.
	Played() time.Duration
	Duration() time.Duration
	Close() error
}

// PlayerFactory opens a player for a sound of a book.
type PlayerFactory interface {
	Open(spec domain.SoundSpec) (Player, error)
}

// Utterance is speech in progress.
type Utterance interface {
	Done() (bool, error)
	Cancel() error
}

// Voice synthesizes speech.
type Voice interface {
	Speak(text string) (Utterance, error)
}

// Phone is the hardware telephone: a dial that can be polled and a bell.
type Phone interface {
	Poll() (domain.Input, error)
	Ring() error
	Unring() error
}
