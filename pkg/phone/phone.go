// Package phone talks to the telephone hardware over a register bus.
//
// The phone firmware answers register reads: reading the ring register
// starts the bell, reading the unring register stops it and reading the
// input register returns the next dial event, if any.
package phone

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
)

// Registers understood by the phone firmware.
const (
	RegUnring byte = 0
	RegRing   byte = 1
	RegInput  byte = 3
)

// Values returned when reading RegInput.
const (
	MsgHangUp  byte = 11
	MsgPickUp  byte = 12
	MsgNoInput byte = 255
)

// Default bus location of the phone.
const (
	DefaultBus     = "/dev/i2c-1"
	DefaultAddress = 4
)

// ErrNoAck is the errno the bus reports when the device did not acknowledge.
// It usually means the device is busy and the read can be retried.
var ErrNoAck = syscall.Errno(121)

const defaultRetries = 8

// Bus reads single registers from a device.
type Bus interface {
	ReadRegister(reg byte) (byte, error)
	Close() error
}

// Phone is a telephone connected via a Bus.
type Phone struct {
	bus     Bus
	retries int
	sleep   func(time.Duration)
}

var _ ports.Phone = (*Phone)(nil)

// Option configures a Phone.
type Option func(*Phone)

// WithRetries sets how many attempts a read gets when the device is busy.
func WithRetries(n int) Option {
	return func(p *Phone) { p.retries = n }
}

// WithSleep replaces time.Sleep between retries.
func WithSleep(sleep func(time.Duration)) Option {
	return func(p *Phone) { p.sleep = sleep }
}

// New wraps an opened bus.
func New(bus Bus, opts ...Option) *Phone {
	p := &Phone{bus: bus, retries: defaultRetries, sleep: time.Sleep}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DecodeInput maps a value read from RegInput to an input.
// Values that are not events yield domain.ErrWouldBlock.
func DecodeInput(msg byte) (domain.Input, error) {
	switch {
	case msg <= 9:
		return domain.MustDigit(int(msg)), nil
	case msg == MsgHangUp:
		return domain.HangUp(), nil
	case msg == MsgPickUp:
		return domain.PickUp(), nil
	default:
		return domain.Input{}, domain.ErrWouldBlock
	}
}

// read retries busy reads with exponential backoff, sleeping 5^attempt
// milliseconds after each failed attempt but the last.
func (p *Phone) read(reg byte) (byte, error) {
	attempts := max(p.retries, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var v byte
		v, err = p.bus.ReadRegister(reg)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrNoAck) {
			return 0, err
		}
		if attempt < attempts {
			p.sleep(backoff(attempt))
		}
	}
	return 0, fmt.Errorf("register %d: device did not acknowledge after %d attempts: %w", reg, attempts, err)
}

func backoff(attempt int) time.Duration {
	d := time.Millisecond
	for i := 0; i < attempt; i++ {
		d *= 5
	}
	return d
}

// Poll returns the next input from the dial.
func (p *Phone) Poll() (domain.Input, error) {
	msg, err := p.read(RegInput)
	if err != nil {
		return domain.Input{}, err
	}
	return DecodeInput(msg)
}

// Ring starts the bell.
func (p *Phone) Ring() error {
	_, err := p.read(RegRing)
	return err
}

// Unring stops the bell.
func (p *Phone) Unring() error {
	_, err := p.read(RegUnring)
	return err
}

// Close releases the bus.
func (p *Phone) Close() error {
	return p.bus.Close()
}

// Handle shares one phone between the dial sense and the bell.
// All access is serialized.
type Handle struct {
	mu    sync.Mutex
	phone ports.Phone
}

var _ ports.Phone = (*Handle)(nil)

// NewHandle wraps phone for shared use.
func NewHandle(phone ports.Phone) *Handle {
	return &Handle{phone: phone}
}

func (h *Handle) Poll() (domain.Input, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phone.Poll()
}

func (h *Handle) Ring() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phone.Ring()
}

func (h *Handle) Unring() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phone.Unring()
}
