package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponder_CountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := metrics.NewResponder(reg)
	require.NoError(t, err)

	lobby := &domain.State{ID: "lobby"}
	hall := &domain.State{ID: "hall"}
	exit := &domain.State{ID: "exit", Terminal: true}

	require.NoError(t, r.Respond(domain.StartEvent(lobby)))
	require.NoError(t, r.Respond(domain.TransitionEvent(domain.Dial(domain.MustDigit(2)), lobby, hall)))
	require.NoError(t, r.Respond(domain.TransitionEvent(domain.Done(time.Second), hall, exit)))
	require.NoError(t, r.Respond(domain.FinishEvent(exit)))

	state, err := r.Update()
	require.NoError(t, err)
	assert.Equal(t, domain.Idle, state)

	expected := `
# HELP fernspiel_transitions_total Total number of state transitions
# TYPE fernspiel_transitions_total counter
fernspiel_transitions_total{cause="idle",from="hall",to="exit"} 1
fernspiel_transitions_total{cause="type 2",from="lobby",to="hall"} 1
# HELP fernspiel_starts_total Total number of times the initial state was entered
# TYPE fernspiel_starts_total counter
fernspiel_starts_total 1
# HELP fernspiel_finishes_total Total number of times a terminal state was reached
# TYPE fernspiel_finishes_total counter
fernspiel_finishes_total 1
# HELP fernspiel_current_state Set to 1 for the current state
# TYPE fernspiel_current_state gauge
fernspiel_current_state{state="exit"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"fernspiel_transitions_total",
		"fernspiel_starts_total",
		"fernspiel_finishes_total",
		"fernspiel_current_state",
	))
}

func TestNewResponder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewResponder(reg)
	require.NoError(t, err)

	_, err = metrics.NewResponder(reg)
	assert.Error(t, err)
}
