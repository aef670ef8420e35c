// Package responder combines responders so the machine can notify several
// of them as one.
package responder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Compound joins errs, ignoring nils. It returns nil if nothing failed and
// a single failure unchanged.
func Compound(errs ...error) error {
	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	switch len(failed) {
	case 0:
		return nil
	case 1:
		return failed[0]
	default:
		return errors.Join(failed...)
	}
}

// Composite fans events out to all of its responders.
// Each failure is logged on its own before they are returned as one.
type Composite struct {
	responders []ports.Responder
	logger     *slog.Logger
}

var _ ports.Responder = (*Composite)(nil)

// Option configures a Composite.
type Option func(*Composite)

// WithLogger sets the logger individual failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composite) { c.logger = l }
}

// NewComposite combines responders. They are notified in the given order.
func NewComposite(responders ...ports.Responder) *Composite {
	return &Composite{responders: responders, logger: logging.NewNop()}
}

// With applies opts and returns c.
func (c *Composite) With(opts ...Option) *Composite {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a responder.
func (c *Composite) Add(r ports.Responder) {
	c.responders = append(c.responders, r)
}

// Responders returns the combined responders.
func (c *Composite) Responders() []ports.Responder {
	return c.responders
}

// Respond notifies every responder, even if earlier ones fail.
func (c *Composite) Respond(evt domain.Event) error {
	errs := make([]error, 0, len(c.responders))
	for _, r := range c.responders {
		err := r.Respond(evt)
		if err != nil {
			c.logger.Warn("Responder failed", "responder", name(r), "event", evt.Kind, "err", err)
		}
		errs = append(errs, err)
	}
	return Compound(errs...)
}

// Update updates every responder. The result is Idle only if all are idle.
func (c *Composite) Update() (domain.ResponderState, error) {
	state := domain.Idle
	errs := make([]error, 0, len(c.responders))
	for _, r := range c.responders {
		s, err := r.Update()
		if err != nil {
			c.logger.Warn("Responder update failed", "responder", name(r), "err", err)
		}
		errs = append(errs, err)
		if s == domain.Running {
			state = domain.Running
		}
	}
	return state, Compound(errs...)
}

// Close closes every responder that can be closed.
func (c *Composite) Close() error {
	var errs []error
	for _, r := range c.responders {
		if closer, ok := r.(io.Closer); ok {
			err := closer.Close()
			if err != nil {
				c.logger.Warn("Failed to close responder", "responder", name(r), "err", err)
			}
			errs = append(errs, err)
		}
	}
	return Compound(errs...)
}

// Func adapts a function to a responder that is always idle.
type Func func(domain.Event) error

func (f Func) Respond(evt domain.Event) error { return f(evt) }

func (f Func) Update() (domain.ResponderState, error) { return domain.Idle, nil }

// Borrowed wraps a responder that is owned elsewhere, so that closing a
// composite containing it leaves it open.
func Borrowed(r ports.Responder) ports.Responder {
	return borrowed{r}
}

type borrowed struct {
	ports.Responder
}

func name(r ports.Responder) string {
	if b, ok := r.(borrowed); ok {
		r = b.Responder
	}
	return fmt.Sprintf("%T", r)
}
