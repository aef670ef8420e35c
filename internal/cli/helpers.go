package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/adapters/process"
	"github.com/aretw0/fernspiel/pkg/book"
)

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

// createLogger configures the application logger from the verbosity flags.
func createLogger(quiet bool, verbose int) *slog.Logger {
	return logging.New(logging.LevelFromVerbosity(quiet, verbose))
}

// backend bundles the external programs configured for this installation.
type backend struct {
	config    *process.Config
	processes *process.Runner
}

// loadBackend reads the backend configuration. An explicit path must exist,
// otherwise fernspiel.yaml is searched next to the phonebook and in the
// working directory.
func loadBackend(explicit, phonebook string) (*backend, error) {
	path := explicit
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		var dirs []string
		if phonebook != "" {
			dirs = append(dirs, filepath.Dir(phonebook))
		}
		path = process.FindConfig(append(dirs, ".")...)
	}

	cfg := &process.Config{}
	if path != "" {
		var err error
		if cfg, err = process.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	return &backend{
		config: cfg,
		processes: process.NewRunner(
			process.WithRegistry(cfg.Processes),
			process.WithBaseDir(filepath.Dir(path)),
		),
	}, nil
}

// compileOptions returns the options every phonebook is compiled with.
func (b *backend) compileOptions(logger *slog.Logger) []book.Option {
	opts := []book.Option{book.WithLogger(logger)}
	if b.processes.Has(process.Render) {
		opts = append(opts, book.WithRenderer(b.processes))
	}
	return opts
}

// loadBook picks the phonebook to start with.
func loadBook(path string, demo bool, opts ...book.Option) (*book.Book, error) {
	switch {
	case demo && path != "":
		return nil, errors.New("--demo and a phonebook cannot be used together")
	case demo:
		return book.Demo(opts...)
	case path == "":
		return book.Passive(), nil
	default:
		return book.Load(path, opts...)
	}
}

// LoadBook compiles a phonebook file without any backend, e.g. for inspection.
func LoadBook(path string) (*book.Book, error) {
	return book.Load(path)
}
