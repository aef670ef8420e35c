package process

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Voice speaks through the registered speak process.
type Voice struct {
	runner *Runner
}

var _ ports.Voice = (*Voice)(nil)

// NewVoice returns a voice backed by runner.
func NewVoice(runner *Runner) *Voice {
	return &Voice{runner: runner}
}

// Speak starts speaking text.
func (v *Voice) Speak(text string) (ports.Utterance, error) {
	h, err := v.runner.Start(Speak, nil, text)
	if err != nil {
		return nil, err
	}
	return utterance{h}, nil
}

type utterance struct {
	h *Handle
}

func (u utterance) Done() (bool, error) { return u.h.Exited() }
func (u utterance) Cancel() error       { return u.h.Kill() }

// RenderSpeech writes speech for text into the file at path.
func (r *Runner) RenderSpeech(ctx context.Context, text, path string) error {
	_, err := r.Run(ctx, Render, nil, path, text)
	return err
}

// ProbeDuration asks the probe process for the length of a media file.
func (r *Runner) ProbeDuration(ctx context.Context, source string) (time.Duration, error) {
	out, err := r.Run(ctx, Probe, nil, source)
	if err != nil {
		return 0, err
	}
	secs, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("probe printed %q for %s: %w", out, source, err)
	}
	return domain.ToDuration(secs)
}
