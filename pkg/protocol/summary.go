package protocol

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/fernspiel/pkg/domain"
)

// StateSummary identifies a state in an event.
type StateSummary struct {
	ID string `yaml:"id" json:"id"`
}

// Reason is the cause of a transition, either a dial description such as
// "type 3" or the idle time in seconds.
type Reason struct {
	Dial    string   `yaml:"dial,omitempty" json:"dial,omitempty"`
	Timeout *float64 `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Summary describes a machine event.
type Summary struct {
	Type     string        `yaml:"type" json:"type"`
	Initial  *StateSummary `yaml:"initial,omitempty" json:"initial,omitempty"`
	Terminal *StateSummary `yaml:"terminal,omitempty" json:"terminal,omitempty"`
	Reason   *Reason       `yaml:"reason,omitempty" json:"reason,omitempty"`
	From     *StateSummary `yaml:"from,omitempty" json:"from,omitempty"`
	To       *StateSummary `yaml:"to,omitempty" json:"to,omitempty"`
}

func summarize(s *domain.State) *StateSummary {
	if s == nil {
		return nil
	}
	return &StateSummary{ID: s.ID}
}

// ReasonFor describes a transition cause.
func ReasonFor(sym domain.Symbol) *Reason {
	if sym.Kind == domain.SymbolDial {
		return &Reason{Dial: sym.Input.String()}
	}
	secs := domain.Seconds(sym.Idle)
	return &Reason{Timeout: &secs}
}

// FromEvent converts a machine event.
func FromEvent(evt domain.Event) Summary {
	s := Summary{Type: evt.Kind.String()}
	switch evt.Kind {
	case domain.EventStart:
		s.Initial = summarize(evt.To)
	case domain.EventFinish:
		s.Terminal = summarize(evt.To)
	default:
		s.Reason = ReasonFor(evt.Cause)
		s.From = summarize(evt.From)
		s.To = summarize(evt.To)
	}
	return s
}

// Encode renders the summary as a YAML document with a leading separator.
func (s Summary) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
