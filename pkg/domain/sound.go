package domain

import (
	"fmt"
	"time"
)

// EndBehavior controls what a sound does when playback reaches the end.
type EndBehavior uint8

const (
	// EndDone stops the sound, it is done afterwards.
	EndDone EndBehavior = iota
	// EndLoop rewinds and plays again while the sound is active.
	EndLoop
)

// ReenterKind selects how a cancelled sound resumes.
type ReenterKind uint8

const (
	// ReenterRewind seeks back to the start offset.
	ReenterRewind ReenterKind = iota
	// ReenterBackoff resumes a little before the last position.
	ReenterBackoff
)

// Reenter controls where a sound continues when activated again after a cancel.
type Reenter struct {
	Kind    ReenterKind
	Backoff time.Duration
}

// Rewind returns the default re-entry behavior.
func Rewind() Reenter {
	return Reenter{Kind: ReenterRewind}
}

// Backoff resumes at the last playback position minus d.
func Backoff(d time.Duration) Reenter {
	return Reenter{Kind: ReenterBackoff, Backoff: d}
}

func (r Reenter) String() string {
	if r.Kind == ReenterBackoff {
		return fmt.Sprintf("backoff %s", r.Backoff)
	}
	return "rewind"
}

// SoundSpec describes a background sound of a book.
type SoundSpec struct {
	// Source is the path of the media file.
	Source string
	// StartOffset is where the first playback starts.
	StartOffset time.Duration
	End         EndBehavior
	Reenter     Reenter
	// Volume in [0,1], passed to players that support it.
	Volume float64
}

// IsLoop reports whether the sound loops.
func (s SoundSpec) IsLoop() bool {
	return s.End == EndLoop
}
