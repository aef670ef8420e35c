package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/internal/runtime"
	"github.com/aretw0/fernspiel/pkg/acts"
	"github.com/aretw0/fernspiel/pkg/adapters/audio"
	"github.com/aretw0/fernspiel/pkg/book"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
	"github.com/aretw0/fernspiel/pkg/protocol"
	"github.com/aretw0/fernspiel/pkg/responder"
	"github.com/aretw0/fernspiel/pkg/senses"
)

// ErrBusy is returned by Submit when too many requests are pending.
var ErrBusy = errors.New("runner busy, request dropped")

// Runner owns a phonebook run and drives it from a single goroutine.
type Runner struct {
	logger         *slog.Logger
	clock          domain.Clock
	phone          ports.Phone
	voice          ports.Voice
	players        ports.PlayerFactory
	observers      []ports.Responder
	senses         []func(*senses.Builder)
	backgroundOpts []senses.BackgroundOption
	compileOpts    []book.Option
	terminal       TerminalStateBehavior
	tickInterval   time.Duration

	book    *book.Book
	machine *runtime.Machine
	sensors *senses.Sensors
	control *senses.Queue

	requests   chan protocol.Request
	loads      chan string
	status     atomic.Pointer[Status]
	ticks      uint64
	lastError  string
	terminated atomic.Bool
	closeOnce  sync.Once
}

// New prepares running b. Sensors start polling right away, the machine
// enters the initial state of b.
func New(b *book.Book, opts ...Option) (*Runner, error) {
	r := &Runner{
		logger:       logging.NewNop(),
		clock:        domain.RealClock{},
		tickInterval: DefaultTickInterval,
		requests:     make(chan protocol.Request, DefaultRequestBufferSize),
		loads:        make(chan string, 1),
		control:      senses.NewQueue(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.players == nil {
		r.players = audio.NewFactory(nil, audio.WithClock(r.clock), audio.WithLogger(r.logger))
	}

	// 1. Sensors survive phonebook switches
	builder := senses.NewBuilder(
		senses.WithLogger(r.logger),
		senses.WithBackgroundOptions(r.backgroundOpts...),
	)
	for _, setup := range r.senses {
		setup(builder)
	}
	r.sensors = builder.Queue(r.control).Build()

	// 2. Acts for the first book
	actuators, err := r.newActuators(b)
	if err != nil {
		r.sensors.Close()
		return nil, err
	}

	// 3. The machine enters the initial state
	machine, err := runtime.NewMachine(r.sensors, r.responderFor(actuators), b.States(),
		runtime.WithClock(r.clock),
		runtime.WithLogger(r.logger),
	)
	if err != nil {
		actuators.Close()
		r.sensors.Close()
		return nil, err
	}
	r.machine = machine
	r.book = b
	r.publishStatus()
	return r, nil
}

func (r *Runner) newActuators(b *book.Book) (*acts.Actuators, error) {
	opts := []acts.Option{
		acts.WithClock(r.clock),
		acts.WithLogger(r.logger),
		acts.WithPlayerFactory(r.players),
	}
	if r.phone != nil {
		opts = append(opts, acts.WithPhone(r.phone))
	}
	if r.voice != nil {
		opts = append(opts, acts.WithVoice(r.voice))
	}
	return acts.NewActuators(b.Sounds(), opts...)
}

func (r *Runner) responderFor(actuators *acts.Actuators) ports.Responder {
	responders := []ports.Responder{actuators}
	for _, o := range r.observers {
		responders = append(responders, responder.Borrowed(o))
	}
	return responder.NewComposite(responders...).With(responder.WithLogger(r.logger))
}

// Run ticks the machine until ctx is done, Terminate is called, or a
// terminal state is reached with the Exit behavior.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for !r.terminated.Load() {
		r.pollRequest()

		if !r.Tick() {
			if r.terminal == Exit {
				r.logger.Info("Reached terminal state, exiting", "state", r.machine.Current().ID)
				return nil
			}
			r.logger.Info("Reached terminal state, starting over", "state", r.machine.Current().ID)
			r.Reset()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Tick runs the machine once and reports whether it is still running.
func (r *Runner) Tick() bool {
	running := r.machine.Update()
	r.ticks++
	r.publishStatus()
	return running
}

func (r *Runner) pollRequest() {
	select {
	case req := <-r.requests:
		if err := r.Handle(req); err != nil {
			r.logger.Error("Remote request failed", "kind", req.Kind, "err", err)
			r.lastError = err.Error()
			r.publishStatus()
		}
	case path := <-r.loads:
		if err := r.Load(path); err != nil {
			r.logger.Error("Reload failed, keeping previous phonebook", "path", path, "err", err)
			r.lastError = err.Error()
			r.publishStatus()
		}
	default:
	}
}

// Handle applies a request immediately. It must be called from the
// goroutine running the runner, other goroutines use Submit.
func (r *Runner) Handle(req protocol.Request) error {
	switch req.Kind {
	case protocol.KindReset:
		r.Reset()
		return nil
	case protocol.KindRun:
		return r.SwitchSpec(req.Book)
	case protocol.KindDial:
		r.logger.Debug("Remote dial", "inputs", req.Inputs)
		return r.control.Send(req.Inputs...)
	default:
		return fmt.Errorf("unknown request %q", req.Kind)
	}
}

// Submit queues a request for the main loop without blocking.
func (r *Runner) Submit(req protocol.Request) error {
	select {
	case r.requests <- req:
		return nil
	default:
		return ErrBusy
	}
}

// SubmitLoad queues loading the phonebook file at path, e.g. after it changed
// on disk. Pending loads of the same file are coalesced.
func (r *Runner) SubmitLoad(path string) error {
	select {
	case r.loads <- path:
		return nil
	default:
		return ErrBusy
	}
}

// Load compiles the phonebook file at path and switches to it.
func (r *Runner) Load(path string) error {
	b, err := book.Load(path, append([]book.Option{book.WithLogger(r.logger)}, r.compileOpts...)...)
	if err != nil {
		return err
	}
	if err := r.Switch(b); err != nil {
		b.Close()
		return err
	}
	return nil
}

// Reset starts the current phonebook over.
func (r *Runner) Reset() {
	r.machine.Reset()
	r.publishStatus()
}

// SwitchSpec compiles spec and switches to it.
func (r *Runner) SwitchSpec(spec *book.Spec) error {
	if spec == nil {
		return errors.New("no phonebook given")
	}
	b, err := book.Compile(spec, append([]book.Option{book.WithLogger(r.logger)}, r.compileOpts...)...)
	if err != nil {
		return err
	}
	if err := r.Switch(b); err != nil {
		b.Close()
		return err
	}
	return nil
}

// Switch replaces the phonebook, keeping the sensors. The old book keeps
// running if b cannot be loaded.
func (r *Runner) Switch(b *book.Book) error {
	// 1. Prepare everything that can fail before touching the machine
	actuators, err := r.newActuators(b)
	if err != nil {
		return fmt.Errorf("failed to prepare phonebook: %w", err)
	}

	// 2. Swap, silencing the old book
	if err := r.machine.Load(r.responderFor(actuators), b.States()); err != nil {
		actuators.Close()
		return err
	}

	// 3. Release the old book
	if err := r.book.Close(); err != nil {
		r.logger.Warn("Failed to clean up previous phonebook", "err", err)
	}
	r.book = b
	r.lastError = ""
	r.logger.Info("Switched phonebook", "source", b.Source(), "initial", b.States()[0].ID)
	r.publishStatus()
	return nil
}

func (r *Runner) publishStatus() {
	current := r.machine.Current()
	r.status.Store(&Status{
		Book:      r.book.Source(),
		StateID:   current.ID,
		StateName: current.DisplayName(),
		Index:     r.machine.CurrentIndex(),
		States:    len(r.machine.States()),
		Terminal:  current.Terminal,
		Ticks:     r.ticks,
		LastError: r.lastError,
	})
}

// Status returns the latest snapshot.
func (r *Runner) Status() Status {
	return *r.status.Load()
}

// Terminate makes Run return after the current tick.
func (r *Runner) Terminate() {
	r.terminated.Store(true)
}

// Terminated reports whether Terminate was called.
func (r *Runner) Terminated() bool {
	return r.terminated.Load()
}

// Close silences all acts, stops the sensors and cleans up the book.
// Run must have returned.
func (r *Runner) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = responder.Compound(
			r.machine.Close(),
			r.control.Close(),
			r.sensors.Close(),
			r.book.Close(),
		)
	})
	return err
}
