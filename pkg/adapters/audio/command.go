package audio

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/adapters/process"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// CommandPlayer plays a file through the registered play process.
//
// The position is tracked by a Timeline, the process is restarted at the
// tracked position on every play and every seek during playback.
type CommandPlayer struct {
	mu       sync.Mutex
	runner   *process.Runner
	spec     domain.SoundSpec
	timeline *Timeline
	handle   *process.Handle
}

var _ ports.Player = (*CommandPlayer)(nil)

// NewCommandPlayer creates a paused player for spec of the given duration.
func NewCommandPlayer(runner *process.Runner, spec domain.SoundSpec, duration time.Duration, clock domain.Clock) *CommandPlayer {
	return &CommandPlayer{
		runner:   runner,
		spec:     spec,
		timeline: NewTimeline(duration, clock),
	}
}

func (p *CommandPlayer) spawn() error {
	offset := p.timeline.Played()
	h, err := p.runner.Start(process.Play, map[string]any{
		"offset": strconv.FormatFloat(offset.Seconds(), 'f', 3, 64),
		"volume": strconv.FormatFloat(p.spec.Volume, 'f', 2, 64),
	}, p.spec.Source)
	if err != nil {
		return err
	}
	p.handle = h
	return nil
}

func (p *CommandPlayer) kill() error {
	if p.handle == nil {
		return nil
	}
	err := p.handle.Kill()
	p.handle = nil
	return err
}

// Play starts the process at the current position.
func (p *CommandPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if playing, _ := p.timeline.Playing(); playing && p.handle != nil {
		return nil
	}
	if err := p.kill(); err != nil {
		return err
	}
	if err := p.timeline.Play(); err != nil {
		return err
	}
	if playing, _ := p.timeline.Playing(); !playing {
		return nil
	}
	return p.spawn()
}

// Pause stops the process and remembers the position.
func (p *CommandPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.timeline.Pause(); err != nil {
		return err
	}
	return p.kill()
}

// Seek moves the position and restarts a running process there.
func (p *CommandPlayer) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.timeline.Seek(pos); err != nil {
		return err
	}
	if p.handle == nil {
		return nil
	}
	if err := p.kill(); err != nil {
		return err
	}
	if playing, _ := p.timeline.Playing(); !playing {
		return nil
	}
	return p.spawn()
}

// Playing reports an error if the play process failed.
func (p *CommandPlayer) Playing() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	playing, _ := p.timeline.Playing()
	if p.handle == nil {
		return playing, nil
	}
	exited, err := p.handle.Exited()
	if err != nil {
		p.handle = nil
		_ = p.timeline.Pause()
		return false, err
	}
	if !playing && !exited {
		_ = p.kill()
	}
	return playing, nil
}

// Played returns the tracked position.
func (p *CommandPlayer) Played() time.Duration {
	return p.timeline.Played()
}

// Duration returns the probed media length.
func (p *CommandPlayer) Duration() time.Duration {
	return p.timeline.Duration()
}

// Close stops playback.
func (p *CommandPlayer) Close() error {
	return p.Pause()
}

// Factory opens players for the sounds of a book.
type Factory struct {
	runner *process.Runner
	clock  domain.Clock
	logger *slog.Logger
	// fallback is used as duration when the duration of a file is unknown.
	fallback time.Duration
}

var _ ports.PlayerFactory = (*Factory)(nil)

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithClock sets the clock used for position tracking.
func WithClock(c domain.Clock) FactoryOption {
	return func(f *Factory) { f.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) FactoryOption {
	return func(f *Factory) { f.logger = l }
}

// WithFallbackDuration sets the duration assumed for files that cannot be probed.
func WithFallbackDuration(d time.Duration) FactoryOption {
	return func(f *Factory) { f.fallback = d }
}

// NewFactory creates a player factory. With a nil runner, or without a
// registered play process, players are silent timelines.
func NewFactory(runner *process.Runner, opts ...FactoryOption) *Factory {
	f := &Factory{
		runner: runner,
		clock:  domain.RealClock{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Open probes the duration of the file and returns a player for it.
func (f *Factory) Open(spec domain.SoundSpec) (ports.Player, error) {
	duration := f.probe(spec.Source)
	if f.runner == nil || !f.runner.Has(process.Play) {
		return NewTimeline(duration, f.clock), nil
	}
	return NewCommandPlayer(f.runner, spec, duration, f.clock), nil
}

func (f *Factory) probe(source string) time.Duration {
	if f.runner == nil || !f.runner.Has(process.Probe) {
		return f.fallback
	}
	ctx, cancel := probeContext()
	defer cancel()
	d, err := f.runner.ProbeDuration(ctx, source)
	if err != nil {
		f.logger.Warn("Could not determine duration of sound", "source", source, "fallback", f.fallback, "err", err)
		return f.fallback
	}
	return d
}

// String describes the backend for diagnostics.
func (f *Factory) String() string {
	if f.runner == nil || !f.runner.Has(process.Play) {
		return "silent"
	}
	return fmt.Sprintf("command (%s)", process.Play)
}
