package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders md for the terminal, returning md unchanged when
// markdown is off or rendering fails.
func (p *Printer) renderMarkdown(md string) string {
	if !p.markdown {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(p.width-4),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
