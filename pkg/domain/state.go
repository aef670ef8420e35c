package domain

import (
	"fmt"
	"time"
)

// Timeout is a transition taken once actuators have been idle for After.
type Timeout struct {
	After time.Duration
	To    int
}

// State is one node of a compiled phonebook.
//
// States are addressed by their index in the state table, index 0 being the
// initial state. They are built once at load time and never mutated.
type State struct {
	// ID is the stable identifier used in the phonebook and in events.
	ID string
	// Name is for display only and does not need to be unique.
	Name string
	// Speech is text spoken when entering the state.
	Speech string
	// Sounds lists indexes into the book's sound table that play while
	// this state is current.
	Sounds []int
	// RingTime is how long the bell rings on entry. Zero means no ringing.
	RingTime time.Duration
	// Inputs maps dial inputs to target state indexes.
	Inputs map[Input]int
	// Timeout is taken after actuators have been idle long enough.
	Timeout *Timeout
	// End is taken once when actuators first become idle.
	End *int
	// Terminal states stop the machine.
	Terminal bool
	// Content lists extra files associated with the state.
	Content []string
}

// TransitionForInput returns the target for the given dial input.
func (s *State) TransitionForInput(in Input) (int, bool) {
	to, ok := s.Inputs[in]
	return to, ok
}

// TransitionForTimeout returns the timeout target if actuators have been
// idle for at least the configured duration.
func (s *State) TransitionForTimeout(idle time.Duration) (int, bool) {
	if s.Timeout == nil || idle < s.Timeout.After {
		return 0, false
	}
	return s.Timeout.To, true
}

// TransitionEnd returns the end target, if any.
func (s *State) TransitionEnd() (int, bool) {
	if s.End == nil {
		return 0, false
	}
	return *s.End, true
}

// Targets returns every state index this state can transition to.
func (s *State) Targets() []int {
	var targets []int
	for _, to := range s.Inputs {
		targets = append(targets, to)
	}
	if s.Timeout != nil {
		targets = append(targets, s.Timeout.To)
	}
	if s.End != nil {
		targets = append(targets, *s.End)
	}
	return targets
}

// DisplayName returns the name, falling back to the id.
func (s *State) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func (s *State) String() string {
	return fmt.Sprintf("%s (%s)", s.DisplayName(), s.ID)
}

// ValidateStates checks that the table is non-empty and that all
// transitions stay in range.
func ValidateStates(states []State) error {
	if len(states) == 0 {
		return ErrNoStates
	}
	for i := range states {
		for _, to := range states[i].Targets() {
			if to < 0 || to >= len(states) {
				return fmt.Errorf("%w: state %q transitions to index %d of %d", ErrUnknownState, states[i].ID, to, len(states))
			}
		}
	}
	return nil
}

// ValidateSounds checks that every sound listed by a state is one of the
// given number of sounds.
func ValidateSounds(states []State, sounds int) error {
	for i := range states {
		for _, snd := range states[i].Sounds {
			if snd < 0 || snd >= sounds {
				return fmt.Errorf("%w: state %q lists sound index %d of %d", ErrUnknownSound, states[i].ID, snd, sounds)
			}
		}
	}
	return nil
}
