package format

import "encoding/json"

func init() {
	Register(jsonFormatter{})
}

// jsonFormatter groups results by file and emits the same
// results/metadata envelope shape the reference implementation's
// JSONFormatter produced.
type jsonFormatter struct{}

func (jsonFormatter) Name() string { return "json" }

type jsonMatch struct {
	LineNum     int    `json:"line_num"`
	LineContent string `json:"line_content"`
	MatchStart  *int   `json:"match_start"`
	MatchEnd    *int   `json:"match_end"`
}

type jsonFileEntry struct {
	File    string      `json:"file"`
	Matches []jsonMatch `json:"matches"`
}

type jsonFlags struct {
	IgnoreCase  bool `json:"ignore_case"`
	InvertMatch bool `json:"invert_match"`
	LineNumber  bool `json:"line_number"`
	Recursive   bool `json:"recursive"`
}

type jsonMetadata struct {
	Pattern      string    `json:"pattern"`
	Flags        jsonFlags `json:"flags"`
	TotalMatches int       `json:"total_matches"`
}

type jsonEnvelope struct {
	Results  []jsonFileEntry `json:"results"`
	Metadata jsonMetadata    `json:"metadata"`
}

func (jsonFormatter) Format(results []MatchResult, opts Options) (string, error) {
	order := []string{}
	grouped := map[string][]jsonMatch{}
	for _, r := range results {
		if _, seen := grouped[r.Filename]; !seen {
			order = append(order, r.Filename)
		}
		m := jsonMatch{LineNum: r.LineNumber, LineContent: r.Line}
		if r.MatchStart >= 0 {
			start, end := r.MatchStart, r.MatchEnd
			m.MatchStart = &start
			m.MatchEnd = &end
		}
		grouped[r.Filename] = append(grouped[r.Filename], m)
	}

	envelope := jsonEnvelope{
		Metadata: jsonMetadata{
			Pattern: opts.Pattern,
			Flags: jsonFlags{
				IgnoreCase:  opts.IgnoreCase,
				InvertMatch: opts.InvertMatch,
				LineNumber:  opts.ShowLineNumber,
				Recursive:   opts.Recursive,
			},
			TotalMatches: len(results),
		},
	}
	for _, filename := range order {
		envelope.Results = append(envelope.Results, jsonFileEntry{
			File:    filename,
			Matches: grouped[filename],
		})
	}

	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
