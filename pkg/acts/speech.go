package acts

import (
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Speech speaks a text through a voice.
type Speech struct {
	voice     ports.Voice
	text      string
	utterance ports.Utterance
	cancelled bool
}

var _ ports.Act = (*Speech)(nil)

// NewSpeech prepares speaking text. Nothing is said before Activate.
func NewSpeech(voice ports.Voice, text string) *Speech {
	return &Speech{voice: voice, text: text}
}

// Activate starts speaking, once.
func (s *Speech) Activate() error {
	if s.utterance != nil || s.cancelled {
		return nil
	}
	u, err := s.voice.Speak(s.text)
	if err != nil {
		return err
	}
	s.utterance = u
	return nil
}

func (s *Speech) Update() error { return nil }

// Cancel stops speaking.
func (s *Speech) Cancel() error {
	s.cancelled = true
	if s.utterance == nil {
		return nil
	}
	return s.utterance.Cancel()
}

// Done is false before activation and true once the text was spoken or
// cancelled.
func (s *Speech) Done() (bool, error) {
	if s.cancelled {
		return true, nil
	}
	if s.utterance == nil {
		return false, nil
	}
	return s.utterance.Done()
}
