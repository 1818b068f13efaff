package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the dialcode banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _ _       _               _      ", "#34d399"},
		{"   __| (_) __ _| | ___ ___   __| | ___ ", "#2dd4bf"},
		{"  / _` | |/ _` | |/ __/ _ \\ / _` |/ _ \\", "#22d3ee"},
		{" | (_| | | (_| | | (_| (_) | (_| |  __/", "#38bdf8"},
		{"  \\__,_|_|\\__,_|_|\\___\\___/ \\__,_|\\___|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  USSD session simulator v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
