package format

import (
	"encoding/csv"
	"strconv"
	"strings"
)

func init() {
	Register(csvFormatter{})
}

// csvFormatter mirrors the reference implementation's CSVFormatter:
// a header row followed by one row per match, empty-string match
// spans when none was recorded (invert-match results).
type csvFormatter struct{}

func (csvFormatter) Name() string { return "csv" }

func (csvFormatter) Format(results []MatchResult, opts Options) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"file", "line", "content", "match_start", "match_end"}); err != nil {
		return "", err
	}
	for _, r := range results {
		start, end := "", ""
		if r.MatchStart >= 0 {
			start = strconv.Itoa(r.MatchStart)
			end = strconv.Itoa(r.MatchEnd)
		}
		row := []string{r.Filename, strconv.Itoa(r.LineNumber), r.Line, start, end}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
