package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
	"github.com/aretw0/fernspiel/pkg/protocol"
	backend "github.com/redis/go-redis/v9"
)

const publishTimeout = time.Second

// Publisher is a responder that publishes every machine event and keeps
// the current state id stored under <prefix>current.
type Publisher struct {
	client  *backend.Client
	channel string
	prefix  string
}

var _ ports.Responder = (*Publisher)(nil)

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithChannel sets the channel events are published to.
func WithChannel(channel string) PublisherOption {
	return func(p *Publisher) {
		p.channel = orDefault(channel, DefaultChannel)
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) PublisherOption {
	return func(p *Publisher) {
		p.prefix = orDefault(prefix, DefaultPrefix)
	}
}

// NewPublisher creates a publisher on an existing client.
func NewPublisher(client *backend.Client, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		client:  client,
		channel: DefaultChannel,
		prefix:  DefaultPrefix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CurrentKey is where the current state id is stored.
func (p *Publisher) CurrentKey() string {
	return p.prefix + "current"
}

// Respond implements ports.Responder.
func (p *Publisher) Respond(evt domain.Event) error {
	msg, err := protocol.FromEvent(evt).Encode()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	pipe := p.client.TxPipeline()
	pipe.Publish(ctx, p.channel, msg)
	if evt.To != nil {
		pipe.Set(ctx, p.CurrentKey(), evt.To.ID, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", evt.Kind, err)
	}
	return nil
}

// Update implements ports.Responder.
func (p *Publisher) Update() (domain.ResponderState, error) {
	return domain.Idle, nil
}
