package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/fernspiel/pkg/adapters/i2c"
	"github.com/aretw0/fernspiel/pkg/adapters/process"
	"github.com/aretw0/fernspiel/pkg/phone"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// CheckSentence is spoken by the check command.
const CheckSentence = "This is the fernspielapparat. Speech works."

const (
	checkRingTime = time.Second
	checkPoll     = 50 * time.Millisecond
)

// Check exercises the installation: it rings the phone for a second and
// speaks a sentence, then returns.
func Check(ctx context.Context, opts CheckOptions) error {
	logger := createLogger(opts.Quiet, opts.Verbose)

	be, err := loadBackend(opts.ConfigPath, "")
	if err != nil {
		return err
	}

	var errs []error

	// 1. Bell
	if opts.I2C {
		p, err := i2c.OpenPhone(phone.DefaultBus, phone.DefaultAddress)
		if err != nil {
			errs = append(errs, err)
		} else {
			printSystemMessage("Ringing for %s", checkRingTime)
			errs = append(errs, ring(ctx, p, checkRingTime), p.Close())
		}
	}

	// 2. Speech
	if be.processes.Has(process.Speak) {
		printSystemMessage("Speaking: %s", CheckSentence)
		errs = append(errs, speak(ctx, process.NewVoice(be.processes), CheckSentence))
	} else {
		logger.Warn("No speech synthesizer configured, skipping speech check")
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	printSystemMessage("Check complete.")
	return nil
}

func ring(ctx context.Context, p ports.Phone, d time.Duration) error {
	if err := p.Ring(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
	return p.Unring()
}

// speak waits until the utterance is finished or ctx is done.
func speak(ctx context.Context, v ports.Voice, text string) error {
	u, err := v.Speak(text)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(checkPoll)
	defer ticker.Stop()
	for {
		done, err := u.Done()
		if err != nil || done {
			return err
		}
		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), u.Cancel())
		case <-ticker.C:
		}
	}
}
