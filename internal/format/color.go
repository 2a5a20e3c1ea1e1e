package format

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// defaultHighlightHex is used whenever HighlightColor is empty or
// fails to parse, mirroring the reference implementation's hardcoded
// bold-red ANSI escape for match highlighting.
const defaultHighlightHex = "#ff3333"

// highlight wraps line[start:end] in a styled ANSI sequence using
// hex (falling back to defaultHighlightHex when hex is empty or not a
// valid color), and leaves line unchanged when start is negative
// (no match span to highlight, e.g. an invert-match result) or out of
// bounds.
func highlight(line string, start, end int, hex string) string {
	if start < 0 || end > len(line) || start >= end {
		return line
	}

	if hex == "" {
		hex = defaultHighlightHex
	}
	if _, err := colorful.Hex(hex); err != nil {
		hex = defaultHighlightHex
	}

	profile := termenv.ColorProfile()
	styled := termenv.String(line[start:end]).Foreground(profile.Color(hex)).Bold()
	return line[:start] + styled.String() + line[end:]
}
