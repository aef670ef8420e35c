package redis

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPopTimeout bounds how long one Poll blocks on the list.
const DefaultPopTimeout = time.Second

// DialSense pops textual dial input, e.g. "12p", from a redis list.
// It blocks and is meant to run as a background sense.
type DialSense struct {
	client  *backend.Client
	list    string
	timeout time.Duration
	pending []domain.Input
}

var _ ports.Sense = (*DialSense)(nil)

// DialOption configures a DialSense.
type DialOption func(*DialSense)

// WithList sets the list to pop from.
func WithList(list string) DialOption {
	return func(s *DialSense) {
		s.list = orDefault(list, DefaultDialList)
	}
}

// WithPopTimeout sets how long one Poll waits for an entry.
func WithPopTimeout(d time.Duration) DialOption {
	return func(s *DialSense) {
		s.timeout = d
	}
}

// NewDialSense creates a sense on an existing client.
func NewDialSense(client *backend.Client, opts ...DialOption) *DialSense {
	s := &DialSense{
		client:  client,
		list:    DefaultDialList,
		timeout: DefaultPopTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Poll implements ports.Sense.
func (s *DialSense) Poll() (domain.Input, error) {
	if len(s.pending) > 0 {
		return s.next(), nil
	}

	res, err := s.client.BLPop(context.Background(), s.timeout, s.list).Result()
	switch {
	case errors.Is(err, backend.Nil):
		return domain.Input{}, domain.ErrWouldBlock
	case errors.Is(err, backend.ErrClosed):
		return domain.Input{}, domain.Fatal(err)
	case err != nil:
		return domain.Input{}, err
	}

	// BLPOP replies with the list name followed by the value
	inputs, err := domain.ParseInputs(res[1])
	if err != nil {
		return domain.Input{}, err
	}
	if len(inputs) == 0 {
		return domain.Input{}, domain.ErrWouldBlock
	}
	s.pending = inputs
	return s.next(), nil
}

func (s *DialSense) next() domain.Input {
	in := s.pending[0]
	s.pending = s.pending[1:]
	return in
}
