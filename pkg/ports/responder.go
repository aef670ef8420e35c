package ports

import "github.com/aretw0/fernspiel/pkg/domain"

// Responder reacts to machine events, e.g. by speaking text or forwarding
// the event to remote clients.
type Responder interface {
	// Respond sets up behavior for the event.
	Respond(evt domain.Event) error
	// Update continues the behavior and reports whether work remains.
	// The returned state is meaningful even if an error is returned.
	Update() (domain.ResponderState, error)
}
