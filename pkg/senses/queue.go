package senses

import (
	"errors"
	"sync"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// ErrQueueClosed is returned when sending to a closed queue.
var ErrQueueClosed = errors.New("queue closed")

// Queue is an unbounded in-process FIFO of inputs, e.g. fed by remote
// control. It never blocks and can be polled from the main loop directly.
type Queue struct {
	mu     sync.Mutex
	items  []domain.Input
	closed bool
}

var _ ports.Sense = (*Queue)(nil)

// QueueInput is the sending side of a queue.
type QueueInput interface {
	Send(inputs ...domain.Input) error
	Close() error
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Send appends inputs.
func (q *Queue) Send(inputs ...domain.Input) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, inputs...)
	return nil
}

// Close stops accepting inputs. Queued inputs are still delivered.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

// Len returns the number of queued inputs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Poll returns the oldest input. A closed and drained queue is fatal.
func (q *Queue) Poll() (domain.Input, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		if q.closed {
			return domain.Input{}, domain.Fatal(ErrQueueClosed)
		}
		return domain.Input{}, domain.ErrWouldBlock
	}
	in := q.items[0]
	q.items[0] = domain.Input{}
	q.items = q.items[1:]
	return in, nil
}
