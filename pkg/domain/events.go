package domain

// EventKind enumerates the machine events.
type EventKind uint8

const (
	// EventStart is emitted when a book is loaded, reset, or when normal
	// progression reaches the initial state again. The initial state is current.
	EventStart EventKind = iota
	// EventTransition is emitted for every state change. It is delivered
	// before any Start or Finish caused by the same change.
	EventTransition
	// EventFinish is emitted when a terminal state becomes current.
	EventFinish
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventFinish:
		return "finish"
	default:
		return "transition"
	}
}

// Event is a read-only notification about the machine.
//
// For Start, To is the initial state. For Finish, To is the terminal state.
// Cause and From are only set for transitions.
type Event struct {
	Kind  EventKind
	Cause Symbol
	From  *State
	To    *State
	// Restarts marks a transition into the initial state. A Start for the
	// same state is delivered right after it.
	Restarts bool
}

// StartEvent announces that initial is now current.
func StartEvent(initial *State) Event {
	return Event{Kind: EventStart, To: initial}
}

// FinishEvent announces that terminal has been reached.
func FinishEvent(terminal *State) Event {
	return Event{Kind: EventFinish, To: terminal}
}

// TransitionEvent announces a state change caused by cause.
func TransitionEvent(cause Symbol, from, to *State) Event {
	return Event{Kind: EventTransition, Cause: cause, From: from, To: to}
}

// RestartEvent announces a state change back into the initial state.
func RestartEvent(cause Symbol, from, initial *State) Event {
	evt := TransitionEvent(cause, from, initial)
	evt.Restarts = true
	return evt
}

// ResponderState reports whether a responder still has work to do.
type ResponderState uint8

const (
	// Idle means the responder finished or never had anything to do.
	Idle ResponderState = iota
	// Running means the responder still has work to do.
	Running
)

func (s ResponderState) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}
