package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the fernspiel banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   __                          _      _ `, "#fbbf24"},
		{`  / _| ___ _ __ _ __  ___ _ __(_) ___| |`, "#f59e0b"},
		{` | |_ / _ \ '__| '_ \/ __| '_ \ |/ _ \ |`, "#f97316"},
		{` |  _|  __/ |  | | | \__ \ |_) | |  __/ |`, "#ef4444"},
		{` |_|  \___|_|  |_| |_|___/ .__/|_|\___|_|`, "#e11d48"},
		{`                         |_|             `, "#be123c"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
