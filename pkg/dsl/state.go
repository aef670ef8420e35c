package dsl

import (
	"strconv"

	"github.com/aretw0/fernspiel/pkg/book"
)

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	id      string
	builder *Builder
}

func (s *StateBuilder) state() *book.StateSpec {
	return s.builder.spec.States[s.id]
}

func (s *StateBuilder) transitions() *book.TransitionSpec {
	tr, ok := s.builder.spec.Transitions[s.id]
	if !ok {
		tr = &book.TransitionSpec{}
		s.builder.spec.Transitions[s.id] = tr
	}
	return tr
}

// Name sets the display name.
func (s *StateBuilder) Name(name string) *StateBuilder {
	s.state().Name = name
	return s
}

// Speech sets the text spoken on entry.
func (s *StateBuilder) Speech(text string) *StateBuilder {
	s.state().Speech = text
	return s
}

// Ring rings the bell for secs seconds on entry.
func (s *StateBuilder) Ring(secs float64) *StateBuilder {
	s.state().Ring = secs
	return s
}

// Sounds lists the background sounds playing in this state.
func (s *StateBuilder) Sounds(ids ...string) *StateBuilder {
	s.state().Sounds = append(s.state().Sounds, ids...)
	return s
}

// Terminal marks the state as terminal.
func (s *StateBuilder) Terminal() *StateBuilder {
	s.state().Terminal = true
	return s
}

// Dial adds a transition taken when digit is dialed.
func (s *StateBuilder) Dial(digit int, target string) *StateBuilder {
	tr := s.transitions()
	if tr.Dial == nil {
		tr.Dial = map[string]string{}
	}
	tr.Dial[strconv.Itoa(digit)] = target
	return s
}

// PickUp adds a transition taken when the speaker is lifted.
func (s *StateBuilder) PickUp(target string) *StateBuilder {
	s.transitions().PickUp = target
	return s
}

// HangUp adds a transition taken when the speaker is put back.
func (s *StateBuilder) HangUp(target string) *StateBuilder {
	s.transitions().HangUp = target
	return s
}

// End adds a transition taken once speech, ringing and non-looping sounds are done.
func (s *StateBuilder) End(target string) *StateBuilder {
	s.transitions().End = target
	return s
}

// Timeout adds a transition taken after being idle for secs seconds.
func (s *StateBuilder) Timeout(secs float64, target string) *StateBuilder {
	s.transitions().Timeout = &book.TimeoutSpec{After: secs, To: target}
	return s
}

// SoundBuilder configures a sound.
type SoundBuilder struct {
	sound *book.SoundSpec
}

// Loop makes the sound start over when it ends.
func (s *SoundBuilder) Loop() *SoundBuilder {
	s.sound.Loop = true
	return s
}

// Backoff resumes the sound secs seconds before where it was stopped.
func (s *SoundBuilder) Backoff(secs float64) *SoundBuilder {
	s.sound.Backoff = &secs
	return s
}

// StartOffset skips the first secs seconds on first playback.
func (s *SoundBuilder) StartOffset(secs float64) *SoundBuilder {
	s.sound.StartOffset = secs
	return s
}

// Volume sets the playback volume in [0,1].
func (s *SoundBuilder) Volume(v float64) *SoundBuilder {
	s.sound.Volume = &v
	return s
}
