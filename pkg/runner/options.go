package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/fernspiel/pkg/book"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/phone"
	"github.com/aretw0/fernspiel/pkg/ports"
	"github.com/aretw0/fernspiel/pkg/senses"
)

// DefaultTickInterval is the pause between two ticks of the main loop.
const DefaultTickInterval = 10 * time.Millisecond

// DefaultRequestBufferSize is how many remote requests may wait for the main loop.
const DefaultRequestBufferSize = 16

// TerminalStateBehavior decides what happens when a terminal state is reached.
type TerminalStateBehavior int

const (
	// Rewind starts the phonebook over at its initial state.
	Rewind TerminalStateBehavior = iota
	// Exit ends Run successfully.
	Exit
)

func (b TerminalStateBehavior) String() string {
	if b == Exit {
		return "exit"
	}
	return "rewind"
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClock configures the time source of the machine and the acts.
func WithClock(clock domain.Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithPhone rings p in states with a ring time and reads its dial.
func WithPhone(p ports.Phone) Option {
	return func(r *Runner) {
		if _, shared := p.(*phone.Handle); !shared {
			p = phone.NewHandle(p)
		}
		r.phone = p
		r.senses = append(r.senses, func(b *senses.Builder) { b.Hardware(p) })
	}
}

// WithVoice configures speech synthesis.
func WithVoice(v ports.Voice) Option {
	return func(r *Runner) {
		r.voice = v
	}
}

// WithPlayerFactory configures sound playback. Defaults to silent players.
func WithPlayerFactory(f ports.PlayerFactory) Option {
	return func(r *Runner) {
		r.players = f
	}
}

// WithObserver adds responders that see every event, e.g. publishers.
// They are shared across phonebook switches and never closed by the runner.
func WithObserver(observers ...ports.Responder) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, observers...)
	}
}

// WithStdin reads dial input from a keyboard.
func WithStdin(in io.Reader, opts ...senses.StdinOption) Option {
	return func(r *Runner) {
		r.senses = append(r.senses, func(b *senses.Builder) { b.Stdin(in, opts...) })
	}
}

// WithSense polls a blocking sense in the background.
func WithSense(s ports.Sense) Option {
	return func(r *Runner) {
		r.senses = append(r.senses, func(b *senses.Builder) { b.Background(s) })
	}
}

// WithNonBlockingSense polls s directly from the main loop.
func WithNonBlockingSense(s ports.Sense) Option {
	return func(r *Runner) {
		r.senses = append(r.senses, func(b *senses.Builder) { b.NonBlocking(s) })
	}
}

// WithBackgroundOptions configures all background senses.
func WithBackgroundOptions(opts ...senses.BackgroundOption) Option {
	return func(r *Runner) {
		r.backgroundOpts = append(r.backgroundOpts, opts...)
	}
}

// WithCompileOptions configures how phonebooks received remotely are compiled.
func WithCompileOptions(opts ...book.Option) Option {
	return func(r *Runner) {
		r.compileOpts = append(r.compileOpts, opts...)
	}
}

// WithTerminalBehavior configures what happens in terminal states.
func WithTerminalBehavior(b TerminalStateBehavior) Option {
	return func(r *Runner) {
		r.terminal = b
	}
}

// WithTickInterval configures the pause between ticks.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.tickInterval = d
	}
}
