// Package process runs the external programs fernspiel relies on for speech
// synthesis and audio playback.
//
// Commands are only executed if registered under a well-known name
// (allow-listing). Extra arguments are appended to the registered ones and
// structured parameters are passed as FERNSPIEL_ARG_* environment variables.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Names of the processes fernspiel knows how to use.
const (
	// Speak speaks its last argument out loud.
	Speak = "speak"
	// Render writes speech for its last argument into the file given
	// as the argument before.
	Render = "render"
	// Play plays its last argument, starting at the offset given
	// through FERNSPIEL_ARG_OFFSET.
	Play = "play"
	// Probe prints the duration of its last argument in seconds.
	Probe = "probe"
)

// ErrNotRegistered is returned when an unknown process is requested.
var ErrNotRegistered = errors.New("process not registered")

// Runner executes registered processes.
type Runner struct {
	registry map[string]RegisteredProcess
	baseDir  string
}

// RegisteredProcess defines an allowed command execution.
type RegisteredProcess struct {
	Command string
	Args    []string
	Env     map[string]string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(procs map[string]ProcessConfig) RunnerOption {
	return func(r *Runner) {
		for name, p := range procs {
			r.registry[name] = RegisteredProcess{Command: p.Command, Args: p.Args, Env: p.Environment}
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]RegisteredProcess),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.registry[name] = RegisteredProcess{
		Command: command,
		Args:    args,
	}
}

// Has reports whether name is registered.
func (r *Runner) Has(name string) bool {
	_, ok := r.registry[name]
	return ok
}

func (r *Runner) command(ctx context.Context, name string, params map[string]any, extra []string) (*exec.Cmd, error) {
	proc, ok := r.registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	args := append(append([]string{}, proc.Args...), extra...)
	cmd := exec.CommandContext(ctx, proc.Command, args...)
	cmd.Dir = r.baseDir

	env := cmd.Environ()
	for k, v := range proc.Env {
		env = append(env, k+"="+v)
	}
	for k, v := range params {
		env = append(env, fmt.Sprintf("FERNSPIEL_ARG_%s=%v", strings.ToUpper(k), v))
	}
	cmd.Env = env
	return cmd, nil
}

// Run executes the process to completion and returns its trimmed stdout.
func (r *Runner) Run(ctx context.Context, name string, params map[string]any, extra ...string) (string, error) {
	cmd, err := r.command(ctx, name, params, extra)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w. Stderr: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Start launches the process in the background.
func (r *Runner) Start(name string, params map[string]any, extra ...string) (*Handle, error) {
	ctx, cancel := context.WithCancel(context.Background())
	cmd, err := r.command(ctx, name, params, extra)
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	h := &Handle{name: name, cancel: cancel, exited: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		h.mu.Lock()
		if !h.killed {
			h.err = err
		}
		h.mu.Unlock()
		close(h.exited)
	}()
	return h, nil
}

// Handle is a running process.
type Handle struct {
	name   string
	cancel context.CancelFunc
	exited chan struct{}

	mu     sync.Mutex
	err    error
	killed bool
}

// Exited reports whether the process has terminated and how it ended.
// A process stopped through Kill reports no error.
func (h *Handle) Exited() (bool, error) {
	select {
	case <-h.exited:
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.err != nil {
			return true, fmt.Errorf("%s exited: %w", h.name, h.err)
		}
		return true, nil
	default:
		return false, nil
	}
}

// Kill stops the process and waits for it to exit. Killing an exited
// process is a no-op.
func (h *Handle) Kill() error {
	h.mu.Lock()
	h.killed = true
	h.mu.Unlock()

	h.cancel()
	<-h.exited
	return nil
}
