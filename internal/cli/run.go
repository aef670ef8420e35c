package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/aretw0/fernspiel/internal/presentation/tui"
	"github.com/aretw0/fernspiel/pkg/adapters/audio"
	fhttp "github.com/aretw0/fernspiel/pkg/adapters/http"
	"github.com/aretw0/fernspiel/pkg/adapters/i2c"
	"github.com/aretw0/fernspiel/pkg/adapters/process"
	"github.com/aretw0/fernspiel/pkg/adapters/redis"
	"github.com/aretw0/fernspiel/pkg/metrics"
	"github.com/aretw0/fernspiel/pkg/phone"
	"github.com/aretw0/fernspiel/pkg/runner"
	"github.com/aretw0/fernspiel/pkg/senses"
)

// Execute handles the 'run' command: it runs a phonebook until interrupted,
// optionally serving the remote control and reloading on file changes.
func Execute(opts RunOptions) error {
	if opts.Watch && opts.Phonebook == "" {
		return errors.New("--watch needs a phonebook file")
	}

	logger := createLogger(opts.Quiet, opts.Verbose)
	if !opts.Quiet {
		tui.PrintBanner(os.Stderr)
	}

	sm := runner.NewSignalManager()
	defer sm.Stop()

	// 1. Assemble the runner
	env, err := setup(opts, logger, sm)
	if err != nil {
		return err
	}
	defer env.close()

	// 2. Run the loop and its companions until one of them stops
	ctx, cancel := context.WithCancel(sm.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ignoreCanceled(env.runner.Run(gctx))
	})
	if env.server != nil {
		addr := net.JoinHostPort(opts.Addr, strconv.Itoa(opts.Port))
		printSystemMessage("Remote control on %s", addr)
		g.Go(func() error {
			return env.server.Serve(gctx, addr)
		})
	}
	if opts.Watch {
		printSystemMessage("Watching %s for changes", opts.Phonebook)
		g.Go(func() error {
			return ignoreCanceled(Watch(gctx, opts.Phonebook, logger, func() {
				printSystemMessage("Change detected in '%s'.", opts.Phonebook)
				if err := env.runner.SubmitLoad(opts.Phonebook); err != nil {
					logger.Warn("Reload already pending", "path", opts.Phonebook)
				}
			}))
		})
	}

	err = g.Wait()
	if sm.Context().Err() != nil {
		printSystemMessage("Interrupted, hanging up.")
	}
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// environment owns everything that must be released on exit.
type environment struct {
	runner  *runner.Runner
	server  *fhttp.Server
	closers []func() error
}

func (e *environment) close() {
	if e.runner != nil {
		if err := e.runner.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

func setup(opts RunOptions, logger *slog.Logger, sm *runner.SignalManager) (*environment, error) {
	env := &environment{}
	ready := false
	defer func() {
		if !ready {
			env.close()
		}
	}()

	be, err := loadBackend(opts.ConfigPath, opts.Phonebook)
	if err != nil {
		return nil, err
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithPlayerFactory(audio.NewFactory(be.processes, audio.WithLogger(logger))),
		runner.WithCompileOptions(be.compileOptions(logger)...),
	}
	if opts.ExitOnTerminal {
		runnerOpts = append(runnerOpts, runner.WithTerminalBehavior(runner.Exit))
	}
	if be.processes.Has(process.Speak) {
		runnerOpts = append(runnerOpts, runner.WithVoice(process.NewVoice(be.processes)))
	} else {
		logger.Warn("No speech synthesizer configured, speech will be skipped")
	}

	// Keyboard
	if !opts.NoStdin {
		stdinOpts := []senses.StdinOption{}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			restore, err := senses.MakeRaw(os.Stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to configure terminal: %w", err)
			}
			env.closers = append(env.closers, restore)
			// Ctrl+C arrives as a key press in raw mode
			stdinOpts = append(stdinOpts, senses.WithInterrupt(sm.Interrupt))
		}
		runnerOpts = append(runnerOpts, runner.WithStdin(os.Stdin, stdinOpts...))
	}

	// Hardware
	if opts.I2C {
		p, err := i2c.OpenPhone(phone.DefaultBus, phone.DefaultAddress)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, p.Close)
		runnerOpts = append(runnerOpts, runner.WithPhone(p))
	}

	// Observers
	m, err := metrics.NewResponder(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	runnerOpts = append(runnerOpts, runner.WithObserver(m))

	if rcfg := redisConfig(opts.Redis, be.config.Redis); rcfg != nil {
		client := redis.NewClient(rcfg)
		env.closers = append(env.closers, client.Close)
		runnerOpts = append(runnerOpts,
			runner.WithObserver(redis.NewPublisher(client,
				redis.WithChannel(rcfg.Channel),
				redis.WithPrefix(rcfg.Prefix),
			)),
			runner.WithSense(redis.NewDialSense(client, redis.WithList(rcfg.DialList))),
		)
		logger.Info("Connected remote control via redis", "addr", rcfg.Addr)
	}

	var hub *fhttp.Hub
	if opts.Serve {
		hub = fhttp.NewHub(logger)
		runnerOpts = append(runnerOpts, runner.WithObserver(fhttp.NewEventPublisher(hub)))
	}

	// Initial phonebook
	b, err := loadBook(opts.Phonebook, opts.Demo, be.compileOptions(logger)...)
	if err != nil {
		return nil, err
	}
	r, err := runner.New(b, runnerOpts...)
	if err != nil {
		b.Close()
		return nil, err
	}
	env.runner = r

	if opts.Serve {
		env.server = fhttp.NewServer(r, fhttp.WithLogger(logger), fhttp.WithHub(hub))
	}
	ready = true
	return env, nil
}

// redisConfig merges the --redis flag into the configured settings.
func redisConfig(addr string, cfg *process.RedisConfig) *process.RedisConfig {
	if addr == "" && cfg == nil {
		return nil
	}
	merged := process.RedisConfig{}
	if cfg != nil {
		merged = *cfg
	}
	if addr != "" {
		merged.Addr = addr
	}
	return &merged
}
