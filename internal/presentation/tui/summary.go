package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/fernspiel/pkg/book"
	"github.com/aretw0/fernspiel/pkg/domain"
)

// BookMarkdown describes a compiled phonebook as a markdown document.
func BookMarkdown(b *book.Book) string {
	states := b.States()
	sounds := b.Sounds()

	var sb strings.Builder
	title := "Phonebook"
	if b.Source() != "" {
		title = fmt.Sprintf("Phonebook `%s`", b.Source())
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "%d states, %d sounds. Starts in **%s**.\n\n", len(states), len(sounds), states[0].DisplayName())

	for i := range states {
		st := &states[i]
		fmt.Fprintf(&sb, "## %s", st.DisplayName())
		if st.Name != "" && st.Name != st.ID {
			fmt.Fprintf(&sb, " (`%s`)", st.ID)
		}
		if st.Terminal {
			sb.WriteString(" - terminal")
		}
		sb.WriteString("\n\n")

		if st.Speech != "" {
			fmt.Fprintf(&sb, "> %s\n\n", st.Speech)
		}
		if st.RingTime > 0 {
			fmt.Fprintf(&sb, "- rings for %s\n", st.RingTime)
		}
		for _, idx := range st.Sounds {
			fmt.Fprintf(&sb, "- plays `%s`%s\n", sounds[idx].Source, soundTraits(sounds[idx]))
		}

		var lines []string
		for in, to := range st.Inputs {
			lines = append(lines, fmt.Sprintf("- *%s* → %s\n", in, states[to].ID))
		}
		slices.Sort(lines)
		for _, l := range lines {
			sb.WriteString(l)
		}
		if to, ok := st.TransitionEnd(); ok {
			fmt.Fprintf(&sb, "- *when done* → %s\n", states[to].ID)
		}
		if st.Timeout != nil {
			fmt.Fprintf(&sb, "- *after %s idle* → %s\n", st.Timeout.After, states[st.Timeout.To].ID)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func soundTraits(s domain.SoundSpec) string {
	var traits []string
	if s.IsLoop() {
		traits = append(traits, "loop")
	}
	if s.StartOffset > 0 {
		traits = append(traits, "from "+s.StartOffset.String())
	}
	if s.Volume != 1 {
		traits = append(traits, fmt.Sprintf("volume %.2f", s.Volume))
	}
	if len(traits) == 0 {
		return ""
	}
	return " (" + strings.Join(traits, ", ") + ")"
}
