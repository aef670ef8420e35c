package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/protocol"
	"github.com/aretw0/fernspiel/pkg/runner"
)

type MockController struct {
	mock.Mock
}

func (m *MockController) Submit(req protocol.Request) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockController) Status() runner.Status {
	args := m.Called()
	return args.Get(0).(runner.Status)
}

func TestHandleDial(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("Submit", protocol.Dial(domain.PickUp(), domain.MustDigit(1))).Return(nil)
	s := NewServer(ctrl, "test")

	ack, err := s.handleDial(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"inputs": "p1"})
	require.NoError(t, err)
	assert.Equal(t, Ack{Kind: "dial", Inputs: 2}, ack)
	ctrl.AssertExpectations(t)

	_, err = s.handleDial(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"inputs": "?"})
	assert.Error(t, err)
	_, err = s.handleDial(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)
}

func TestHandleReset_Busy(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("Submit", protocol.Reset()).Return(runner.ErrBusy)
	s := NewServer(ctrl, "test")

	_, err := s.handleReset(context.Background(), mcp.CallToolRequest{}, nil)
	assert.ErrorIs(t, err, runner.ErrBusy)
}

func TestHandleRun(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("Submit", mock.MatchedBy(func(req protocol.Request) bool {
		return req.Kind == protocol.KindRun && req.Book.Initial == "a"
	})).Return(nil)
	s := NewServer(ctrl, "test")

	ack, err := s.handleRun(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"phonebook": "initial: a\nstates:\n  a: {}\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "run", ack.Kind)
	ctrl.AssertExpectations(t)

	_, err = s.handleRun(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"phonebook": ""})
	assert.Error(t, err)
}

func TestStatusToolAndResource(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("Status").Return(runner.Status{StateID: "lobby", States: 2})
	s := NewServer(ctrl, "test")

	st, err := s.handleStatus(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "lobby", st.StateID)

	contents, err := s.readStatus(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, StatusURI, text.URI)
	assert.JSONEq(t, `{"state":"lobby","name":"","index":0,"states":2,"terminal":false,"ticks":0}`, text.Text)
}
