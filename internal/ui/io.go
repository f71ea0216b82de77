// Package ui renders view-model state to the terminal. Styled output uses
// lipgloss, plans are rendered as markdown with glamour, and plain mode
// prints the same content without escape codes for pipes and scripts.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Color modes accepted in the output config.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Options configures a Printer.
type Options struct {
	Plain    bool // no styling at all
	Markdown bool // render plans through glamour
	Width    int  // wrap width; 0 detects the terminal, falling back to 80
}

// Printer writes command output. Normal output goes to out; errors and
// notices about the session go to errOut.
type Printer struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	styles   styles
	plain    bool
	markdown bool
	width    int
}

// NewPrinter creates a Printer.
func NewPrinter(out, errOut io.Writer, opts Options) *Printer {
	p := &Printer{
		out:      out,
		errOut:   errOut,
		plain:    opts.Plain,
		markdown: opts.Markdown && !opts.Plain,
		width:    opts.Width,
	}
	if p.width <= 0 {
		p.width = terminalWidth(out)
	}
	if opts.Plain {
		p.styles = plainStyles()
	} else {
		p.styles = defaultStyles()
	}
	return p
}

// UsePlain reports whether output should be unstyled for the given color
// mode and writer.
func UsePlain(colorMode string, w io.Writer) bool {
	switch colorMode {
	case ColorAlways:
		return false
	case ColorNever:
		return true
	}
	return !isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 20 {
			return width
		}
	}
	return 80
}

// Width is the wrap width in use.
func (p *Printer) Width() int { return p.width }

// Plain reports whether styling is off.
func (p *Printer) Plain() bool { return p.plain }

func (p *Printer) write(w io.Writer, s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	io.WriteString(w, s)
}

// Println prints text unstyled.
func (p *Printer) Println(text string) {
	p.write(p.out, text)
}

// Printf prints formatted text unstyled.
func (p *Printer) Printf(format string, args ...any) {
	p.write(p.out, fmt.Sprintf(format, args...))
}

// Title prints a heading.
func (p *Printer) Title(text string) {
	p.write(p.out, p.styles.title.Render(text))
}

// Success prints a confirmation of a completed action.
func (p *Printer) Success(text string) {
	if text == "" {
		return
	}
	p.write(p.out, p.styles.success.Render(text))
}

// Notice prints a system-level message (flash messages, redirects).
func (p *Printer) Notice(text string) {
	if text == "" {
		return
	}
	p.write(p.errOut, p.styles.system.Render(text))
}

// Error prints an error message. Empty messages are skipped: the session
// layer has already told the user what happened.
func (p *Printer) Error(msg string) {
	if msg == "" {
		return
	}
	p.write(p.errOut, p.styles.err.Render("error: "+msg))
}

// Hint prints dim secondary text.
func (p *Printer) Hint(text string) {
	p.write(p.out, p.styles.hint.Render(text))
}

// Separator prints a horizontal rule across the wrap width.
func (p *Printer) Separator() {
	p.write(p.out, p.styles.separator.Render(strings.Repeat("─", min(p.width, 60))))
}

// label renders a field label.
func (p *Printer) label(text string) string {
	return p.styles.label.Render(text)
}

