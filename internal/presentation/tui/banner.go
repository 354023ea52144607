package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"   ___        _     ___        _   ", "#38bdf8"},
	{"  / _ \\ _ _  /_\\   | _ ) ___  | |_ ", "#22d3ee"},
	{" | (_) | ' \\/ _ \\  | _ \\/ _ \\ |  _|", "#2dd4bf"},
	{"  \\__\\_\\_||_/_/ \\_\\ |___/\\___/  \\__|", "#34d399"},
}

// PrintBanner writes the start-up banner and a usage hint to w.
func PrintBanner(w io.Writer, kbID string) {
	p := termenv.EnvColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
	hint := fmt.Sprintf("knowledge base %q, type \"exit\" to leave", kbID)
	fmt.Fprintln(w, termenv.String(hint).Faint())
	fmt.Fprintln(w)
}
