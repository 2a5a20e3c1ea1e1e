package format

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

func init() {
	Register(markdownFormatter{})
}

// maxMarkdownContentGraphemes bounds how many grapheme clusters of
// line content a Markdown table cell shows before truncating with an
// ellipsis, mirroring the reference implementation's 80-character
// cutoff but counted in user-perceived characters rather than bytes
// or runes, so a truncated multi-byte glyph never splits mid-cluster.
const maxMarkdownContentGraphemes = 80

// markdownFormatter renders results as a GitHub-flavored Markdown
// table, escaping pipe characters and truncating long lines.
type markdownFormatter struct{}

func (markdownFormatter) Name() string { return "markdown" }

func (markdownFormatter) Format(results []MatchResult, opts Options) (string, error) {
	var b strings.Builder
	b.WriteString("| File | Line | Content |\n")
	b.WriteString("|------|------|---------|\n")

	for _, r := range results {
		content := strings.ReplaceAll(r.Line, "|", "\\|")
		content = truncateGraphemes(content, maxMarkdownContentGraphemes)
		b.WriteString("| ")
		b.WriteString(r.Filename)
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(r.LineNumber))
		b.WriteString(" | ")
		b.WriteString(content)
		b.WriteString(" |\n")
	}
	return b.String(), nil
}

// truncateGraphemes cuts s to at most n grapheme clusters, appending
// "..." when anything was dropped. Using grapheme clusters (rather
// than bytes or runes) keeps combining marks and emoji sequences
// intact at the cut point.
func truncateGraphemes(s string, n int) string {
	gr := uniseg.NewGraphemes(s)
	var b strings.Builder
	count := 0
	for gr.Next() {
		if count == n {
			b.WriteString("...")
			return b.String()
		}
		b.WriteString(gr.Str())
		count++
	}
	return b.String()
}
