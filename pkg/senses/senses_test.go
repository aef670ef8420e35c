package senses_test

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/phone"
	"github.com/aretw0/fernspiel/pkg/senses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	in  domain.Input
	err error
}

// scripted replays steps and would block afterwards.
type scripted struct {
	mu    sync.Mutex
	steps []step
	polls atomic.Int32
}

func (s *scripted) Poll() (domain.Input, error) {
	s.polls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) == 0 {
		return domain.Input{}, domain.ErrWouldBlock
	}
	next := s.steps[0]
	s.steps = s.steps[1:]
	return next.in, next.err
}

// endless reports the same digit forever.
type endless struct {
	polls atomic.Int32
}

func (e *endless) Poll() (domain.Input, error) {
	e.polls.Add(1)
	return domain.MustDigit(1), nil
}

func eventually(t *testing.T, poll func() (domain.Input, error)) (domain.Input, error) {
	t.Helper()
	var in domain.Input
	var err error
	require.Eventually(t, func() bool {
		in, err = poll()
		return !errors.Is(err, domain.ErrWouldBlock)
	}, 2*time.Second, time.Millisecond)
	return in, err
}

func TestBackground_DeliversInOrder(t *testing.T) {
	sense := &scripted{steps: []step{
		{in: domain.MustDigit(1)},
		{err: domain.ErrWouldBlock},
		{in: domain.PickUp()},
	}}
	bg := senses.NewBackground(sense, senses.WithPollInterval(0))
	defer bg.Close()

	in, err := eventually(t, bg.Poll)
	require.NoError(t, err)
	assert.Equal(t, domain.MustDigit(1), in)

	in, err = eventually(t, bg.Poll)
	require.NoError(t, err)
	assert.Equal(t, domain.PickUp(), in)
}

func TestBackground_PollNeverBlocks(t *testing.T) {
	bg := senses.NewBackground(&scripted{}, senses.WithPollInterval(time.Hour))
	defer bg.Close()

	_, err := bg.Poll()
	assert.ErrorIs(t, err, domain.ErrWouldBlock)
}

func TestBackground_FatalIsForwardedOnce(t *testing.T) {
	cause := errors.New("device unplugged")
	bg := senses.NewBackground(&scripted{steps: []step{{err: domain.Fatal(cause)}}}, senses.WithPollInterval(0))
	defer bg.Close()

	_, err := eventually(t, bg.Poll)
	assert.ErrorIs(t, err, cause)
	assert.True(t, domain.IsFatal(err))

	_, err = bg.Poll()
	assert.True(t, domain.IsFatal(err), "closed channel keeps reporting fatal")
	assert.ErrorIs(t, err, senses.ErrStopped)
}

func TestBackground_BoundedBuffer(t *testing.T) {
	sense := &endless{}
	bg := senses.NewBackground(sense)
	defer bg.Close()

	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, sense.polls.Load(), int32(5), "worker pauses when the buffer is full")

	in, err := bg.Poll()
	require.NoError(t, err)
	assert.Equal(t, domain.MustDigit(1), in)
}

func TestBackground_CloseStopsWorker(t *testing.T) {
	sense := &scripted{}
	bg := senses.NewBackground(sense, senses.WithPollInterval(time.Millisecond))
	require.NoError(t, bg.Close())
	require.NoError(t, bg.Close())

	_, err := eventually(t, bg.Poll)
	assert.True(t, domain.IsFatal(err))

	polls := sense.polls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, polls, sense.polls.Load())
}

func TestSensors_RegistrationOrder(t *testing.T) {
	first := senses.NewQueue()
	second := senses.NewQueue()
	sensors := senses.NewBuilder().Queue(first).Queue(second).Build()
	defer sensors.Close()

	require.NoError(t, second.Send(domain.MustDigit(2)))
	require.NoError(t, first.Send(domain.MustDigit(1)))

	in, ok := sensors.Poll()
	require.True(t, ok)
	assert.Equal(t, domain.MustDigit(1), in)

	in, ok = sensors.Poll()
	require.True(t, ok)
	assert.Equal(t, domain.MustDigit(2), in)

	_, ok = sensors.Poll()
	assert.False(t, ok)
}

func TestSensors_DropsFatalSenses(t *testing.T) {
	broken := &scripted{steps: []step{{err: domain.Fatal(errors.New("gone"))}}}
	flaky := &scripted{steps: []step{{err: errors.New("hiccup")}, {in: domain.HangUp()}}}
	sensors := senses.NewBuilder().NonBlocking(broken).NonBlocking(flaky).Build()

	_, ok := sensors.Poll()
	assert.False(t, ok)
	assert.Equal(t, 1, sensors.Len())

	in, ok := sensors.Poll()
	require.True(t, ok)
	assert.Equal(t, domain.HangUp(), in)
	assert.Equal(t, 1, sensors.Len(), "non-fatal errors keep the sense")
}

func TestSensors_Blind(t *testing.T) {
	sensors := senses.Blind()
	_, ok := sensors.Poll()
	assert.False(t, ok)
	assert.NoError(t, sensors.Close())
}

func TestSensors_BackgroundStdin(t *testing.T) {
	sensors := senses.NewBuilder(senses.WithBackgroundOptions(senses.WithPollInterval(0))).
		Stdin(strings.NewReader("x3")).
		Build()
	defer sensors.Close()

	var in domain.Input
	require.Eventually(t, func() bool {
		var ok bool
		in, ok = sensors.Poll()
		return ok
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, domain.MustDigit(3), in)

	require.Eventually(t, func() bool {
		sensors.Poll()
		return sensors.Len() == 0
	}, 2*time.Second, time.Millisecond, "stdin is removed after EOF")
}

func TestQueue(t *testing.T) {
	q := senses.NewQueue()

	_, err := q.Poll()
	assert.ErrorIs(t, err, domain.ErrWouldBlock)

	require.NoError(t, q.Send(domain.PickUp(), domain.MustDigit(4)))
	assert.Equal(t, 2, q.Len())
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Send(domain.HangUp()), senses.ErrQueueClosed)

	in, err := q.Poll()
	require.NoError(t, err)
	assert.Equal(t, domain.PickUp(), in)
	in, err = q.Poll()
	require.NoError(t, err)
	assert.Equal(t, domain.MustDigit(4), in)

	_, err = q.Poll()
	assert.True(t, domain.IsFatal(err))
}

func TestStdin(t *testing.T) {
	interrupted := 0
	s := senses.NewStdin(strings.NewReader("a1 p\x03h"), senses.WithInterrupt(func() { interrupted++ }))

	var got []domain.Input
	for {
		in, err := s.Poll()
		if err != nil {
			assert.True(t, domain.IsFatal(err))
			break
		}
		got = append(got, in)
	}
	assert.Equal(t, []domain.Input{domain.MustDigit(1), domain.PickUp(), domain.HangUp()}, got)
	assert.Equal(t, 1, interrupted)
}

type fakeDial struct {
	replies []step
}

func (f *fakeDial) Poll() (domain.Input, error) {
	if len(f.replies) == 0 {
		return domain.Input{}, domain.ErrWouldBlock
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	return next.in, next.err
}
func (f *fakeDial) Ring() error   { return nil }
func (f *fakeDial) Unring() error { return nil }

func TestHardwareDial(t *testing.T) {
	dial := senses.NewHardwareDial(&fakeDial{replies: []step{
		{in: domain.PickUp()},
		{in: domain.PickUp()},
		{in: domain.MustDigit(5)},
		{in: domain.MustDigit(5)},
		{err: phone.ErrNoAck},
		{in: domain.HangUp()},
		{err: errors.New("bus gone")},
	}})

	var got []domain.Input
	var last error
	for range 7 {
		in, err := dial.Poll()
		switch {
		case err == nil:
			got = append(got, in)
		case errors.Is(err, domain.ErrWouldBlock):
		default:
			last = err
		}
	}

	assert.Equal(t, []domain.Input{domain.PickUp(), domain.MustDigit(5), domain.MustDigit(5), domain.HangUp()}, got)
	assert.True(t, domain.IsFatal(last))
}
