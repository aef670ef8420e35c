package senses

import (
	"errors"
	"io"
	"log/slog"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Sensors polls a set of senses as one.
type Sensors struct {
	senses  []ports.Sense
	closers []io.Closer
	logger  *slog.Logger
}

// Blind returns sensors that never report input.
func Blind() *Sensors {
	return &Sensors{logger: logging.NewNop()}
}

// Poll returns the first available input in registration order.
// Senses that failed for good are removed.
func (s *Sensors) Poll() (domain.Input, bool) {
	for i := 0; i < len(s.senses); {
		in, err := s.senses[i].Poll()
		switch {
		case err == nil:
			return in, true
		case errors.Is(err, domain.ErrWouldBlock):
			i++
		case domain.IsFatal(err):
			s.logger.Error("Removing failed sense", "err", err)
			s.senses = append(s.senses[:i], s.senses[i+1:]...)
		default:
			s.logger.Warn("Sense failed, will retry", "err", err)
			i++
		}
	}
	return domain.Input{}, false
}

// Len returns the number of senses still being polled.
func (s *Sensors) Len() int {
	return len(s.senses)
}

// Close stops all background workers.
func (s *Sensors) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	s.senses = nil
	return errors.Join(errs...)
}

// Builder assembles Sensors.
type Builder struct {
	sensors *Sensors
	bgOpts  []BackgroundOption
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger of the built sensors.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.sensors.logger = l }
}

// WithBackgroundOptions applies opts to every background sense.
func WithBackgroundOptions(opts ...BackgroundOption) BuilderOption {
	return func(b *Builder) { b.bgOpts = append(b.bgOpts, opts...) }
}

// NewBuilder starts with no senses.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{sensors: Blind()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Background runs a blocking sense on its own goroutine.
func (b *Builder) Background(sense ports.Sense) *Builder {
	bg := NewBackground(sense, b.bgOpts...)
	b.sensors.senses = append(b.sensors.senses, bg)
	b.sensors.closers = append(b.sensors.closers, bg)
	return b
}

// NonBlocking polls sense directly from the main loop.
func (b *Builder) NonBlocking(sense ports.Sense) *Builder {
	b.sensors.senses = append(b.sensors.senses, sense)
	return b
}

// Stdin reads the keyboard from r in the background.
func (b *Builder) Stdin(r io.Reader, opts ...StdinOption) *Builder {
	return b.Background(NewStdin(r, opts...))
}

// Hardware polls the dial of p in the background.
func (b *Builder) Hardware(p ports.Phone) *Builder {
	return b.Background(NewHardwareDial(p))
}

// Queue polls q from the main loop.
func (b *Builder) Queue(q *Queue) *Builder {
	return b.NonBlocking(q)
}

// Build returns the sensors. The builder must not be used afterwards.
func (b *Builder) Build() *Sensors {
	s := b.sensors
	b.sensors = nil
	return s
}
