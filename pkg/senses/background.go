package senses

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// DefaultPollInterval is how long a background worker sleeps after its
// sense had nothing to report.
const DefaultPollInterval = 150 * time.Millisecond

// backgroundCapacity bounds how many inputs wait for the main loop.
const backgroundCapacity = 4

// ErrStopped is reported by a background sense whose worker is gone.
var ErrStopped = errors.New("background sense stopped")

type result struct {
	input domain.Input
	err   error
}

// Background polls a blocking sense on its own goroutine.
type Background struct {
	results  chan result
	stop     chan struct{}
	once     sync.Once
	interval time.Duration
}

var _ ports.Sense = (*Background)(nil)

// BackgroundOption configures a Background sense.
type BackgroundOption func(*Background)

// WithPollInterval sets the sleep after a would-block. Zero yields to
// other goroutines instead of sleeping.
func WithPollInterval(d time.Duration) BackgroundOption {
	return func(b *Background) { b.interval = d }
}

// NewBackground starts polling sense in a new goroutine.
func NewBackground(sense ports.Sense, opts ...BackgroundOption) *Background {
	b := &Background{
		results:  make(chan result, backgroundCapacity),
		stop:     make(chan struct{}),
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.work(sense)
	return b
}

func (b *Background) work(sense ports.Sense) {
	defer close(b.results)
	for {
		in, err := sense.Poll()
		switch {
		case err == nil:
			if !b.send(result{input: in}) {
				return
			}
		case errors.Is(err, domain.ErrWouldBlock):
			if !b.pause() {
				return
			}
		case domain.IsFatal(err):
			b.send(result{err: err})
			return
		default:
			if !b.send(result{err: err}) || !b.pause() {
				return
			}
		}
	}
}

// send blocks while the buffer is full and reports false once stopped.
func (b *Background) send(r result) bool {
	select {
	case b.results <- r:
		return true
	case <-b.stop:
		return false
	}
}

func (b *Background) pause() bool {
	if b.interval == 0 {
		runtime.Gosched()
		select {
		case <-b.stop:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(b.interval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-b.stop:
		return false
	}
}

// Poll returns the oldest buffered input without blocking.
func (b *Background) Poll() (domain.Input, error) {
	select {
	case r, ok := <-b.results:
		if !ok {
			return domain.Input{}, domain.Fatal(ErrStopped)
		}
		return r.input, r.err
	default:
		return domain.Input{}, domain.ErrWouldBlock
	}
}

// Close asks the worker to stop. A worker blocked inside the sense's Poll
// exits once that call returns.
func (b *Background) Close() error {
	b.once.Do(func() { close(b.stop) })
	return nil
}
