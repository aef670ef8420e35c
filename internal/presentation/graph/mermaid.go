package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/fernspiel/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces a Mermaid flowchart of a compiled phonebook.
// It applies semantic styling:
// - Initial: ((Circle))
// - Terminal: ([Stadium])
// - Ringing: {{Hexagon}}
// - Default: [Rectangle]
// Dial transitions are solid, end and timeout transitions dotted.
func GenerateMermaid(states []domain.State, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i := range states {
		st := &states[i]
		safeID := sanitizeMermaidID(st.ID)

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case st.Terminal:
			opener, closer = "([", "])"
		case st.RingTime > 0:
			opener, closer = "{{", "}}"
		}

		label := strings.ReplaceAll(st.DisplayName(), "\"", "'")
		if st.RingTime > 0 {
			label = fmt.Sprintf("%s <br/> 🔔 %s", label, st.RingTime)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		// Dial transitions, sorted for stable output
		type edge struct {
			label string
			to    int
		}
		var edges []edge
		for in, to := range st.Inputs {
			edges = append(edges, edge{in.String(), to})
		}
		slices.SortFunc(edges, func(a, b edge) int { return strings.Compare(a.label, b.label) })
		for _, e := range edges {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, e.label, sanitizeMermaidID(states[e.to].ID))
		}

		if to, ok := st.TransitionEnd(); ok {
			fmt.Fprintf(&sb, "    %s -. end .-> %s\n", safeID, sanitizeMermaidID(states[to].ID))
		}
		if st.Timeout != nil {
			fmt.Fprintf(&sb, "    %s -. \"⏱️ %s\" .-> %s\n", safeID, st.Timeout.After, sanitizeMermaidID(states[st.Timeout.To].ID))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	// "end" is a keyword in flowcharts
	if s == "end" {
		s = "end_"
	}
	return s
}
