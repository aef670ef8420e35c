package graph_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/fernspiel/internal/presentation/graph"
	"github.com/aretw0/fernspiel/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	one := 1
	tests := []struct {
		name     string
		states   []domain.State
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name: "Shapes",
			states: []domain.State{
				{ID: "idle", Name: "Waiting"},
				{ID: "ringing", RingTime: 3 * time.Second},
				{ID: "goodbye", Terminal: true},
			},
			contains: []string{
				`idle(("Waiting"))`,
				`ringing{{"ringing <br/> 🔔 3s"}}`,
				`goodbye(["goodbye"])`,
			},
		},
		{
			name: "ID Sanitization",
			states: []domain.State{
				{ID: "hyphen-ated"},
				{ID: "end"},
			},
			contains: []string{
				`hyphen_ated(("hyphen-ated"))`,
				`end_["end"]`,
			},
		},
		{
			name: "Transitions",
			states: []domain.State{
				{
					ID: "a",
					Inputs: map[domain.Input]int{
						domain.MustDigit(2): 1,
						domain.PickUp():     1,
					},
					Timeout: &domain.Timeout{After: 1500 * time.Millisecond, To: 0},
				},
				{ID: "b", End: &one},
			},
			contains: []string{
				`a -- "pick up" --> b`,
				`a -- "type 2" --> b`,
				`a -. "⏱️ 1.5s" .-> a`,
				`b -. end .-> b`,
			},
		},
		{
			name:    "Overlay",
			states:  []domain.State{{ID: "a"}, {ID: "b"}},
			overlay: &graph.GraphOverlay{VisitedStates: []string{"a", "a"}, CurrentState: "b"},
			contains: []string{
				"class a visited;",
				"class b current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.states, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_Deterministic(t *testing.T) {
	states := []domain.State{{
		ID: "a",
		Inputs: map[domain.Input]int{
			domain.MustDigit(1): 0, domain.MustDigit(2): 0, domain.MustDigit(3): 0,
			domain.HangUp(): 0, domain.PickUp(): 0,
		},
	}}
	first := graph.GenerateMermaid(states, nil)
	for range 20 {
		if got := graph.GenerateMermaid(states, nil); got != first {
			t.Fatalf("output changed between runs:\n%s\n%s", first, got)
		}
	}
}
