package format

import (
	"sort"
	"strconv"
	"strings"
)

func init() {
	Register(countFormatter{})
}

// countFormatter mirrors grep -c: one "filename:N" line per file that
// had at least one match, or a single bare number when there is only
// one file (or none named at all, e.g. stdin).
type countFormatter struct{}

func (countFormatter) Name() string { return "count" }

func (countFormatter) Format(results []MatchResult, opts Options) (string, error) {
	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		if _, seen := counts[r.Filename]; !seen {
			order = append(order, r.Filename)
		}
		counts[r.Filename]++
	}
	sort.Strings(order)

	var b strings.Builder
	if !opts.ShowFilename && len(order) <= 1 {
		total := 0
		for _, c := range counts {
			total += c
		}
		b.WriteString(strconv.Itoa(total))
		b.WriteByte('\n')
		return b.String(), nil
	}
	for _, filename := range order {
		b.WriteString(filename)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(counts[filename]))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
