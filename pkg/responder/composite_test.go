package responder_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/responder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) Respond(evt domain.Event) error {
	return m.Called(evt).Error(0)
}

func (m *MockResponder) Update() (domain.ResponderState, error) {
	args := m.Called()
	return args.Get(0).(domain.ResponderState), args.Error(1)
}

func (m *MockResponder) Close() error {
	return m.Called().Error(0)
}

func TestCompound(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")

	assert.NoError(t, responder.Compound())
	assert.NoError(t, responder.Compound(nil, nil))
	assert.Same(t, a, responder.Compound(nil, a))

	both := responder.Compound(a, nil, b)
	assert.ErrorIs(t, both, a)
	assert.ErrorIs(t, both, b)
}

func TestComposite_RespondFansOut(t *testing.T) {
	evt := domain.StartEvent(&domain.State{ID: "initial"})
	failure := errors.New("offline")

	first := new(MockResponder)
	second := new(MockResponder)
	first.On("Respond", evt).Return(failure)
	second.On("Respond", evt).Return(nil)

	err := responder.NewComposite(first, second).Respond(evt)
	assert.ErrorIs(t, err, failure)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestComposite_UpdateAggregates(t *testing.T) {
	idle := new(MockResponder)
	idle.On("Update").Return(domain.Idle, nil)
	busy := new(MockResponder)
	busy.On("Update").Return(domain.Running, nil)

	state, err := responder.NewComposite(idle, idle).Update()
	require.NoError(t, err)
	assert.Equal(t, domain.Idle, state)

	state, err = responder.NewComposite(idle, busy).Update()
	require.NoError(t, err)
	assert.Equal(t, domain.Running, state)

	broken := new(MockResponder)
	broken.On("Update").Return(domain.Idle, errors.New("lost connection"))
	state, err = responder.NewComposite(broken, busy).Update()
	assert.Error(t, err)
	assert.Equal(t, domain.Running, state, "state is reported despite errors")

	assert.Equal(t, domain.Idle, func() domain.ResponderState {
		s, _ := responder.NewComposite().Update()
		return s
	}(), "empty composite is idle")
}

func TestComposite_Close(t *testing.T) {
	closable := new(MockResponder)
	closable.On("Close").Return(nil)

	c := responder.NewComposite(closable, responder.Func(func(domain.Event) error { return nil }))
	require.NoError(t, c.Close())
	closable.AssertExpectations(t)
}

func TestComposite_CloseSkipsBorrowed(t *testing.T) {
	shared := new(MockResponder)

	c := responder.NewComposite(responder.Borrowed(shared))
	require.NoError(t, c.Close())
	shared.AssertNotCalled(t, "Close")
}

func TestComposite_LogsEachFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	evt := domain.StartEvent(&domain.State{ID: "initial"})

	first := new(MockResponder)
	second := new(MockResponder)
	third := new(MockResponder)
	first.On("Respond", evt).Return(errors.New("offline"))
	second.On("Respond", evt).Return(nil)
	third.On("Respond", evt).Return(errors.New("speaker unplugged"))

	c := responder.NewComposite(first, responder.Borrowed(second), third).With(responder.WithLogger(logger))
	err := c.Respond(evt)
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "one entry per failed responder")
	assert.Contains(t, lines[0], "offline")
	assert.Contains(t, lines[0], "MockResponder")
	assert.Contains(t, lines[1], "speaker unplugged")
}
