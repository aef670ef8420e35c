package phone_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/phone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	reads   []byte
	replies map[byte][]byte
	fails   int
	err     error
}

func (b *fakeBus) ReadRegister(reg byte) (byte, error) {
	b.reads = append(b.reads, reg)
	if b.fails > 0 {
		b.fails--
		return 0, b.err
	}
	queue := b.replies[reg]
	if len(queue) == 0 {
		return phone.MsgNoInput, nil
	}
	b.replies[reg] = queue[1:]
	return queue[0], nil
}

func (b *fakeBus) Close() error { return nil }

func TestDecodeInput(t *testing.T) {
	for msg := byte(0); msg <= 9; msg++ {
		in, err := phone.DecodeInput(msg)
		require.NoError(t, err)
		assert.Equal(t, domain.MustDigit(int(msg)), in)
	}

	in, err := phone.DecodeInput(phone.MsgHangUp)
	require.NoError(t, err)
	assert.Equal(t, domain.HangUp(), in)

	in, err = phone.DecodeInput(phone.MsgPickUp)
	require.NoError(t, err)
	assert.Equal(t, domain.PickUp(), in)

	for _, msg := range []byte{10, 13, 42, phone.MsgNoInput} {
		_, err := phone.DecodeInput(msg)
		assert.ErrorIs(t, err, domain.ErrWouldBlock, "message %d", msg)
	}
}

func TestPhone_RegisterAccess(t *testing.T) {
	bus := &fakeBus{replies: map[byte][]byte{phone.RegInput: {7}}}
	p := phone.New(bus)

	require.NoError(t, p.Ring())
	require.NoError(t, p.Unring())

	in, err := p.Poll()
	require.NoError(t, err)
	assert.Equal(t, domain.MustDigit(7), in)

	_, err = p.Poll()
	assert.ErrorIs(t, err, domain.ErrWouldBlock)

	assert.Equal(t, []byte{phone.RegRing, phone.RegUnring, phone.RegInput, phone.RegInput}, bus.reads)
}

func TestPhone_RetriesBusyDevice(t *testing.T) {
	var slept []time.Duration
	bus := &fakeBus{replies: map[byte][]byte{}, fails: 3, err: phone.ErrNoAck}
	p := phone.New(bus, phone.WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	require.NoError(t, p.Ring())
	assert.Equal(t, []time.Duration{5 * time.Millisecond, 25 * time.Millisecond, 125 * time.Millisecond}, slept)
}

func TestPhone_DefaultAttempts(t *testing.T) {
	var slept []time.Duration
	bus := &fakeBus{replies: map[byte][]byte{}, fails: 100, err: phone.ErrNoAck}
	p := phone.New(bus, phone.WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	assert.ErrorIs(t, p.Ring(), phone.ErrNoAck)
	assert.Len(t, bus.reads, 8)
	assert.Equal(t, []time.Duration{
		5 * time.Millisecond,
		25 * time.Millisecond,
		125 * time.Millisecond,
		625 * time.Millisecond,
		3125 * time.Millisecond,
		15625 * time.Millisecond,
		78125 * time.Millisecond,
	}, slept)
}

func TestPhone_GivesUpAfterRetries(t *testing.T) {
	bus := &fakeBus{replies: map[byte][]byte{}, fails: 100, err: phone.ErrNoAck}
	p := phone.New(bus, phone.WithRetries(2), phone.WithSleep(func(time.Duration) {}))

	err := p.Ring()
	assert.ErrorIs(t, err, phone.ErrNoAck)
	assert.Len(t, bus.reads, 2)
}

func TestPhone_OtherErrorsAreNotRetried(t *testing.T) {
	broken := errors.New("bus gone")
	bus := &fakeBus{replies: map[byte][]byte{}, fails: 100, err: broken}
	p := phone.New(bus, phone.WithSleep(func(time.Duration) { t.Fatal("should not sleep") }))

	_, err := p.Poll()
	assert.ErrorIs(t, err, broken)
	assert.Len(t, bus.reads, 1)
}

func TestHandle_Delegates(t *testing.T) {
	bus := &fakeBus{replies: map[byte][]byte{phone.RegInput: {phone.MsgPickUp}}}
	h := phone.NewHandle(phone.New(bus))

	in, err := h.Poll()
	require.NoError(t, err)
	assert.Equal(t, domain.PickUp(), in)
	require.NoError(t, h.Ring())
	require.NoError(t, h.Unring())
}
