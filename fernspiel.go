package fernspiel

import (
	_ "embed"
	"strings"

	"github.com/aretw0/fernspiel/pkg/book"
	"github.com/aretw0/fernspiel/pkg/runner"
)

//go:embed VERSION
var version string

// Version is the release of this module.
var Version = strings.TrimSpace(version)

// New loads the phonebook at path and prepares running it.
// An empty path runs the passive phonebook, which waits for a remote
// control to send one.
func New(path string, opts ...runner.Option) (*runner.Runner, error) {
	b := book.Passive()
	if path != "" {
		var err error
		if b, err = book.Load(path); err != nil {
			return nil, err
		}
	}
	return newRunner(b, opts)
}

// NewDemo prepares running the built-in demo phonebook.
func NewDemo(opts ...runner.Option) (*runner.Runner, error) {
	b, err := book.Demo()
	if err != nil {
		return nil, err
	}
	return newRunner(b, opts)
}

func newRunner(b *book.Book, opts []runner.Option) (*runner.Runner, error) {
	r, err := runner.New(b, opts...)
	if err != nil {
		b.Close()
		return nil, err
	}
	return r, nil
}
