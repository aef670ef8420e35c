package book

// AnyState names the pseudo state whose transitions apply to every state.
const AnyState = "any"

// Spec is the phonebook document as written in YAML.
type Spec struct {
	Initial string `yaml:"initial" json:"initial"`
	// Terminal optionally names a terminal state, in addition to states
	// flagged terminal themselves.
	Terminal    string                     `yaml:"terminal,omitempty" json:"terminal,omitempty"`
	States      map[string]*StateSpec      `yaml:"states" json:"states"`
	Transitions map[string]*TransitionSpec `yaml:"transitions,omitempty" json:"transitions,omitempty"`
	Sounds      map[string]*SoundSpec      `yaml:"sounds,omitempty" json:"sounds,omitempty"`
}

// StateSpec describes one state. A state without body is empty.
type StateSpec struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Speech string `yaml:"speech,omitempty" json:"speech,omitempty"`
	// Ring is the ringing time in seconds.
	Ring     float64  `yaml:"ring,omitempty" json:"ring,omitempty"`
	Terminal bool     `yaml:"terminal,omitempty" json:"terminal,omitempty"`
	Sounds   []string `yaml:"sounds,omitempty" json:"sounds,omitempty"`
	Content  []string `yaml:"content,omitempty" json:"content,omitempty"`
}

// TransitionSpec lists the transitions out of a state.
type TransitionSpec struct {
	// Dial maps single digits to target state ids.
	Dial    map[string]string `yaml:"dial,omitempty" json:"dial,omitempty"`
	PickUp  string            `yaml:"pick_up,omitempty" json:"pick_up,omitempty"`
	HangUp  string            `yaml:"hang_up,omitempty" json:"hang_up,omitempty"`
	End     string            `yaml:"end,omitempty" json:"end,omitempty"`
	Timeout *TimeoutSpec      `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// TimeoutSpec is taken after actuators have been idle for After seconds.
type TimeoutSpec struct {
	After float64 `yaml:"after" json:"after"`
	To    string  `yaml:"to" json:"to"`
}

// SoundSpec describes a background sound, either a file or synthesized speech.
type SoundSpec struct {
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
	Speech string `yaml:"speech,omitempty" json:"speech,omitempty"`
	// Volume in [0,1], defaults to 1.
	Volume *float64 `yaml:"volume,omitempty" json:"volume,omitempty"`
	// Backoff in seconds, switches re-entry from rewind to backoff.
	Backoff     *float64 `yaml:"backoff,omitempty" json:"backoff,omitempty"`
	Loop        bool     `yaml:"loop,omitempty" json:"loop,omitempty"`
	StartOffset float64  `yaml:"start_offset,omitempty" json:"start_offset,omitempty"`
}

// merge fills what t leaves unset from fallback. Dial entries of the
// fallback are added for digits t does not define.
func (t *TransitionSpec) merge(fallback *TransitionSpec) *TransitionSpec {
	merged := &TransitionSpec{Dial: map[string]string{}}
	if t != nil {
		for k, v := range t.Dial {
			merged.Dial[k] = v
		}
		merged.PickUp = t.PickUp
		merged.HangUp = t.HangUp
		merged.End = t.End
		merged.Timeout = t.Timeout
	}
	if fallback == nil {
		return merged
	}
	for k, v := range fallback.Dial {
		if _, ok := merged.Dial[k]; !ok {
			merged.Dial[k] = v
		}
	}
	if merged.PickUp == "" {
		merged.PickUp = fallback.PickUp
	}
	if merged.HangUp == "" {
		merged.HangUp = fallback.HangUp
	}
	if merged.End == "" {
		merged.End = fallback.End
	}
	if merged.Timeout == nil {
		merged.Timeout = fallback.Timeout
	}
	return merged
}
