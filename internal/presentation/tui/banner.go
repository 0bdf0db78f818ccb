package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Minsky ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`  __  __ _           _`, "#818cf8"},
		{` |  \/  (_)_ __  ___| | ___   _`, "#a78bfa"},
		{` | |\/| | | '_ \/ __| |/ / | | |`, "#c084fc"},
		{` | |  | | | | | \__ \   <| |_| |`, "#e879f9"},
		{` |_|  |_|_|_| |_|___/_|\_\\__, |`, "#f472b6"},
		{`                          |___/`, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
