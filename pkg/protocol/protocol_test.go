package protocol_test

import (
	"testing"
	"time"

	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_Encode(t *testing.T) {
	one := &domain.State{ID: "1"}
	two := &domain.State{ID: "2"}

	for _, tc := range []struct {
		name string
		evt  domain.Event
		want string
	}{
		{
			name: "Start",
			evt:  domain.StartEvent(one),
			want: "---\ntype: start\ninitial:\n  id: \"1\"\n",
		},
		{
			name: "Finish",
			evt:  domain.FinishEvent(two),
			want: "---\ntype: finish\nterminal:\n  id: \"2\"\n",
		},
		{
			name: "Dial",
			evt:  domain.TransitionEvent(domain.Dial(domain.PickUp()), one, two),
			want: "---\ntype: transition\nreason:\n  dial: pick up\nfrom:\n  id: \"1\"\nto:\n  id: \"2\"\n",
		},
		{
			name: "Timeout",
			evt:  domain.TransitionEvent(domain.Done(1500*time.Millisecond), one, two),
			want: "---\ntype: transition\nreason:\n  timeout: 1.5\nfrom:\n  id: \"1\"\nto:\n  id: \"2\"\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data, err := protocol.FromEvent(tc.evt).Encode()
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}
}

func TestReasonFor_ZeroIdle(t *testing.T) {
	r := protocol.ReasonFor(domain.Done(0))
	require.NotNil(t, r.Timeout)
	assert.Equal(t, 0.0, *r.Timeout)
}

func TestDecode_Run(t *testing.T) {
	req, err := protocol.Decode([]byte(`{
  "invoke": "run",
  "with": {
    "initial": "lonelystate",
    "states": {"lonelystate": {}},
    "transitions": {}
  }
}`))
	require.NoError(t, err)
	assert.Equal(t, protocol.KindRun, req.Kind)
	require.NotNil(t, req.Book)
	assert.Equal(t, "lonelystate", req.Book.Initial)
}

func TestDecode_Reset(t *testing.T) {
	req, err := protocol.Decode([]byte(`invoke: reset`))
	require.NoError(t, err)
	assert.Equal(t, protocol.Reset(), req)
}

func TestDecode_Dial(t *testing.T) {
	for name, doc := range map[string]string{
		"String":       "invoke: dial\nwith: \"1p\"",
		"List":         "invoke: dial\nwith: [1, p]",
		"Nested Lists": "invoke: dial\nwith: [\"1\", [\"p\"]]",
	} {
		t.Run(name, func(t *testing.T) {
			req, err := protocol.Decode([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, protocol.Dial(domain.MustDigit(1), domain.PickUp()), req)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	for name, doc := range map[string]string{
		"Not Yaml":       "{{{",
		"Missing Invoke": "with: 1",
		"Unknown Invoke": "invoke: explode",
		"Unknown Field":  "invoke: reset\nplease: true",
		"Run Without":    "invoke: run",
		"Dial Without":   "invoke: dial",
		"Dial Garbage":   "invoke: dial\nwith: xyz",
		"Bad Book":       "invoke: run\nwith: {initial: a, colour: red}",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := protocol.Decode([]byte(doc))
			assert.ErrorIs(t, err, protocol.ErrMalformed)
		})
	}
}
