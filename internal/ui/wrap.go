package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// truncate shortens s to maxWidth display cells, appending "…" if cut.
func truncate(s string, maxWidth int) string {
	s = strings.Join(strings.Fields(s), " ")
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// wrapByDisplayWidth splits text into lines no wider than width cells.
// Words longer than width are broken.
func wrapByDisplayWidth(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var cur strings.Builder
		curW := 0
		flush := func() {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
		for _, word := range strings.Fields(para) {
			ww := runewidth.StringWidth(word)
			if curW > 0 && curW+1+ww > width {
				flush()
			}
			for ww > width {
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					_, size := utf8.DecodeRuneInString(word)
					head = word[:size]
				}
				if curW > 0 {
					flush()
				}
				lines = append(lines, head)
				word = word[len(head):]
				ww = runewidth.StringWidth(word)
			}
			if word == "" {
				continue
			}
			if curW > 0 {
				cur.WriteByte(' ')
				curW++
			}
			cur.WriteString(word)
			curW += ww
		}
		flush()
	}
	return lines
}

// indent wraps text to width and prefixes every line.
func indent(text, prefix string, width int) string {
	avail := width - runewidth.StringWidth(prefix)
	if avail < 20 {
		avail = 20
	}
	lines := wrapByDisplayWidth(text, avail)
	for i, ln := range lines {
		lines[i] = prefix + ln
	}
	return strings.Join(lines, "\n")
}
