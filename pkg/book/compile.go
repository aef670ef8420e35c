package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/domain"
)

// ErrNoRenderer is returned for speech sounds when no renderer is configured.
var ErrNoRenderer = errors.New("no speech renderer configured")

const renderTimeout = time.Minute

// Renderer synthesizes speech into an audio file.
type Renderer interface {
	RenderSpeech(ctx context.Context, text, path string) error
}

type compiler struct {
	baseDir  string
	renderer Renderer
	logger   *slog.Logger
	source   string
}

// Option configures loading and compilation.
type Option func(*compiler)

// WithBaseDir resolves relative file paths against dir.
func WithBaseDir(dir string) Option {
	return func(c *compiler) { c.baseDir = dir }
}

// WithRenderer enables sounds given as speech.
func WithRenderer(r Renderer) Option {
	return func(c *compiler) { c.renderer = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *compiler) { c.logger = l }
}

// Compile turns a decoded document into a book.
func Compile(spec *Spec, opts ...Option) (*Book, error) {
	c := &compiler{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c.compile(spec)
}

func (c *compiler) compile(spec *Spec) (*Book, error) {
	if len(spec.States) == 0 {
		return nil, domain.ErrNoStates
	}
	if spec.Initial == "" {
		return nil, errors.New("phonebook has no initial state")
	}
	if _, ok := spec.States[spec.Initial]; !ok {
		return nil, fmt.Errorf("%w: initial state %q is undefined", domain.ErrUnknownState, spec.Initial)
	}
	if spec.Terminal != "" {
		if _, ok := spec.States[spec.Terminal]; !ok {
			return nil, fmt.Errorf("%w: terminal state %q is undefined", domain.ErrUnknownState, spec.Terminal)
		}
	}
	for id := range spec.Transitions {
		if _, ok := spec.States[id]; !ok && id != AnyState {
			return nil, fmt.Errorf("%w: transitions defined for %q", domain.ErrUnknownState, id)
		}
	}

	b := &Book{ids: map[string]int{}, source: c.source}

	// 1. Order the states, initial first
	ids := []string{spec.Initial}
	var rest []string
	for id := range spec.States {
		if id != spec.Initial {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	ids = append(ids, rest...)
	for i, id := range ids {
		b.ids[id] = i
	}

	// 2. Compile the sounds
	soundIDs := make(map[string]int, len(spec.Sounds))
	var soundNames []string
	for id := range spec.Sounds {
		soundNames = append(soundNames, id)
	}
	slices.Sort(soundNames)
	for _, id := range soundNames {
		snd, err := c.sound(b, id, spec.Sounds[id])
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		soundIDs[id] = len(b.sounds)
		b.sounds = append(b.sounds, snd)
	}

	// 3. Compile the states with their transitions
	fallback := spec.Transitions[AnyState]
	for _, id := range ids {
		st, err := c.state(b, spec, id, soundIDs, spec.Transitions[id].merge(fallback))
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.states = append(b.states, st)
	}

	if err := errors.Join(domain.ValidateStates(b.states), domain.ValidateSounds(b.states, len(b.sounds))); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (c *compiler) state(b *Book, spec *Spec, id string, soundIDs map[string]int, tr *TransitionSpec) (domain.State, error) {
	body := spec.States[id]
	if body == nil {
		body = &StateSpec{}
	}

	st := domain.State{
		ID:       id,
		Name:     body.Name,
		Speech:   body.Speech,
		Terminal: body.Terminal || id == spec.Terminal,
		Inputs:   map[domain.Input]int{},
	}
	if st.Name == "" {
		st.Name = id
	}

	ring, err := domain.ToDuration(body.Ring)
	if err != nil {
		return st, fmt.Errorf("state %q: ring: %w", id, err)
	}
	st.RingTime = ring

	for _, name := range body.Sounds {
		idx, ok := soundIDs[name]
		if !ok {
			return st, fmt.Errorf("state %q uses undefined sound %q", id, name)
		}
		st.Sounds = append(st.Sounds, idx)
	}
	for _, file := range body.Content {
		st.Content = append(st.Content, c.resolve(file))
	}

	target := func(to string) (int, error) {
		idx, ok := b.ids[to]
		if !ok {
			return 0, fmt.Errorf("%w: state %q transitions to %q", domain.ErrUnknownState, id, to)
		}
		return idx, nil
	}

	for pattern, to := range tr.Dial {
		digit, err := parseDigit(pattern)
		if err != nil {
			return st, fmt.Errorf("state %q: %w", id, err)
		}
		idx, err := target(to)
		if err != nil {
			return st, err
		}
		st.Inputs[digit] = idx
	}
	for in, to := range map[domain.Input]string{domain.PickUp(): tr.PickUp, domain.HangUp(): tr.HangUp} {
		if to == "" {
			continue
		}
		idx, err := target(to)
		if err != nil {
			return st, err
		}
		st.Inputs[in] = idx
	}
	if tr.End != "" {
		idx, err := target(tr.End)
		if err != nil {
			return st, err
		}
		st.End = &idx
	}
	if tr.Timeout != nil {
		idx, err := target(tr.Timeout.To)
		if err != nil {
			return st, err
		}
		after, err := domain.ToDuration(tr.Timeout.After)
		if err != nil {
			return st, fmt.Errorf("state %q: timeout: %w", id, err)
		}
		st.Timeout = &domain.Timeout{After: after, To: idx}
	}
	return st, nil
}

func parseDigit(pattern string) (domain.Input, error) {
	if len(pattern) != 1 {
		return domain.Input{}, fmt.Errorf("dial pattern %q must be a single digit", pattern)
	}
	n, err := strconv.Atoi(pattern)
	if err != nil {
		return domain.Input{}, fmt.Errorf("dial pattern %q must be a single digit", pattern)
	}
	return domain.NewDigit(n)
}

func (c *compiler) sound(b *Book, id string, body *SoundSpec) (domain.SoundSpec, error) {
	if body == nil {
		return domain.SoundSpec{}, fmt.Errorf("sound %q has neither file nor speech", id)
	}

	snd := domain.SoundSpec{Volume: 1, Reenter: domain.Rewind()}
	switch {
	case body.File != "":
		snd.Source = c.resolve(body.File)
	case body.Speech != "":
		path, err := c.render(body.Speech)
		if err != nil {
			return snd, fmt.Errorf("sound %q: %w", id, err)
		}
		b.temp = append(b.temp, path)
		snd.Source = path
	default:
		return snd, fmt.Errorf("sound %q has neither file nor speech", id)
	}

	if body.Volume != nil {
		if *body.Volume < 0 || *body.Volume > 1 {
			return snd, fmt.Errorf("sound %q: volume %v is not in [0,1]", id, *body.Volume)
		}
		snd.Volume = *body.Volume
	}
	if body.Backoff != nil {
		backoff, err := domain.ToDuration(*body.Backoff)
		if err != nil {
			return snd, fmt.Errorf("sound %q: backoff: %w", id, err)
		}
		snd.Reenter = domain.Backoff(backoff)
	}
	if body.Loop {
		snd.End = domain.EndLoop
	}
	offset, err := domain.ToDuration(body.StartOffset)
	if err != nil {
		return snd, fmt.Errorf("sound %q: start_offset: %w", id, err)
	}
	snd.StartOffset = offset
	return snd, nil
}

func (c *compiler) render(text string) (string, error) {
	if c.renderer == nil {
		return "", ErrNoRenderer
	}
	f, err := os.CreateTemp("", "fernspiel-speech-*.wav")
	if err != nil {
		return "", err
	}
	path := f.Name()
	f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()
	if err := c.renderer.RenderSpeech(ctx, text, path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to render speech: %w", err)
	}
	c.logger.Debug("Rendered speech", "path", path, "text", text)
	return path, nil
}

func (c *compiler) resolve(file string) string {
	if filepath.IsAbs(file) || c.baseDir == "" {
		return file
	}
	return filepath.Join(c.baseDir, file)
}
