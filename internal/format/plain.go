package format

import (
	"strconv"
	"strings"
)

func init() {
	Register(plainFormatter{})
}

// plainFormatter reproduces grep's own default output: one matched
// line per output line, with an optional "filename:" and/or
// "lineno:" prefix, in that order, depending on which flags are set.
type plainFormatter struct{}

func (plainFormatter) Name() string { return "plain" }

func (plainFormatter) Format(results []MatchResult, opts Options) (string, error) {
	var b strings.Builder
	for _, r := range results {
		if opts.ShowFilename {
			b.WriteString(r.Filename)
			b.WriteByte(':')
		}
		if opts.ShowLineNumber {
			b.WriteString(strconv.Itoa(r.LineNumber))
			b.WriteByte(':')
		}
		line := r.Line
		if opts.ColorEnabled {
			line = highlight(line, r.MatchStart, r.MatchEnd, opts.HighlightColor)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
