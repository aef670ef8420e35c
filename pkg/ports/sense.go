package ports

import "github.com/aretw0/fernspiel/pkg/domain"

// Sense is a source of dial inputs.
//
// Poll returns the next input. It returns domain.ErrWouldBlock if nothing is
// available yet and an error satisfying domain.IsFatal if the sense can never
// deliver input again. Background senses may block inside Poll, senses
// polled from the main loop must not.
type Sense interface {
	Poll() (domain.Input, error)
}
