package senses

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// ctrlC is what a terminal in raw mode sends instead of SIGINT.
const ctrlC = 0x03

// Stdin reads dial input from a keyboard. It blocks and is meant to run
// inside a Background sense.
type Stdin struct {
	r         *bufio.Reader
	interrupt func()
}

var _ ports.Sense = (*Stdin)(nil)

// StdinOption configures the keyboard sense.
type StdinOption func(*Stdin)

// WithInterrupt calls fn when Ctrl+C arrives as a byte, which happens in raw mode.
func WithInterrupt(fn func()) StdinOption {
	return func(s *Stdin) { s.interrupt = fn }
}

// NewStdin reads from r.
func NewStdin(r io.Reader, opts ...StdinOption) *Stdin {
	s := &Stdin{r: bufio.NewReader(r)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Poll blocks until a known key arrives. Unknown keys are skipped. End of
// input is fatal.
func (s *Stdin) Poll() (domain.Input, error) {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.Input{}, domain.Fatal(fmt.Errorf("stdin closed: %w", err))
			}
			return domain.Input{}, domain.Fatal(err)
		}
		if b == ctrlC && s.interrupt != nil {
			s.interrupt()
			continue
		}
		if in, ok := domain.ParseInput(rune(b)); ok {
			return in, nil
		}
	}
}

// MakeRaw puts f into raw mode if it is a terminal, so single key presses
// arrive without Enter. The returned function restores the previous mode.
func MakeRaw(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() error { return nil }, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return func() error { return term.Restore(fd, state) }, nil
}
