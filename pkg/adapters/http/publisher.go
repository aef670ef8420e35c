package http

import (
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
	"github.com/aretw0/fernspiel/pkg/protocol"
)

// EventPublisher is a responder that broadcasts every machine event to the
// clients of a hub.
type EventPublisher struct {
	hub *Hub
}

var _ ports.Responder = (*EventPublisher)(nil)

// NewEventPublisher creates a publisher for hub.
func NewEventPublisher(hub *Hub) *EventPublisher {
	return &EventPublisher{hub: hub}
}

// Respond implements ports.Responder.
func (p *EventPublisher) Respond(evt domain.Event) error {
	msg, err := protocol.FromEvent(evt).Encode()
	if err != nil {
		return err
	}
	p.hub.Broadcast(msg)
	return nil
}

// Update implements ports.Responder. Publishing never holds up the machine.
func (p *EventPublisher) Update() (domain.ResponderState, error) {
	return domain.Idle, nil
}
