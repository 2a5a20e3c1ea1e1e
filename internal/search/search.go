// Package search implements the engine's external contract (spec.md
// §4.3 and §6): given a pattern and a subject line, decide whether the
// subject contains a match, trying candidate start positions in
// ascending order and pruning impossible ones via a minimum-match-length
// bound.
package search

import (
	"strings"

	"github.com/anbasement/greplex/internal/matcher"
	"github.com/anbasement/greplex/internal/parser"
	"github.com/anbasement/greplex/internal/token"
)

// Pattern is a pre-parsed, reusable compiled pattern — the engine
// boundary the host actually calls, so a multi-line search doesn't
// reparse the same pattern once per line. Its shape mirrors the
// standard library's regexp.Regexp: Compile once, match many times.
type Pattern struct {
	parsed     *parser.Parsed
	ignoreCase bool
	minLength  int
}

// Compile parses pattern once. When ignoreCase is true, the pattern
// text itself is lowercased before parsing — matching subjects must
// then also be lowercased by the caller (MatchString does this
// itself); case-insensitivity is never threaded through the matcher
// as a flag (spec.md §4.4).
func Compile(pattern string, ignoreCase bool) (*Pattern, error) {
	if ignoreCase {
		pattern = strings.ToLower(pattern)
	}
	parsed, err := parser.Parse(pattern)
	if err != nil {
		return nil, err
	}
	return &Pattern{
		parsed:     parsed,
		ignoreCase: ignoreCase,
		minLength:  MinMatchLength(parsed.Tokens),
	}, nil
}

// MatchString reports whether subject contains a match anywhere.
func (p *Pattern) MatchString(subject string) bool {
	ok, _ := p.findFrom(subject)
	return ok
}

// FindSubmatch reports whether subject contains a match and, if so,
// the capture map of the winning branch. There is no group 0 entry:
// the whole-match span is not tracked, and callers index by the
// 1-based group numbers the pattern assigned.
func (p *Pattern) FindSubmatch(subject string) (bool, map[int]string) {
	return p.findFrom(subject)
}

func (p *Pattern) findFrom(subject string) (bool, map[int]string) {
	if p.ignoreCase {
		subject = strings.ToLower(subject)
	}
	for _, start := range StartIndices(len(subject), p.minLength, p.parsed.StartAnchor) {
		ok, caps := matcher.Match(p.parsed.Tokens, p.parsed.EndAnchor, subject, start)
		if ok {
			return true, caps
		}
	}
	return false, nil
}

// ContainsMatch is the one-shot convenience form of the engine's
// Match-in-line contract (spec.md §6).
func ContainsMatch(pattern, subject string, ignoreCase bool) bool {
	p, err := Compile(pattern, ignoreCase)
	if err != nil {
		return false
	}
	return p.MatchString(subject)
}

// FindSubmatch is the one-shot convenience form that also returns
// captures.
func FindSubmatch(pattern, subject string, ignoreCase bool) (bool, map[int]string) {
	p, err := Compile(pattern, ignoreCase)
	if err != nil {
		return false, nil
	}
	return p.FindSubmatch(subject)
}

// MinMatchLength computes the minimum number of subject characters the
// token sequence could possibly consume (spec.md §4.3 step 1):
// '?'-quantified tokens contribute 0, everything else contributes 1
// (atomic) or the minimum over a group's alternatives (with the same
// '?' rule applied at the group level).
func MinMatchLength(tokens []token.Token) int {
	length := 0
	for _, tok := range tokens {
		if tok.Quant == token.ZeroOrOne {
			continue
		}
		if group, ok := tok.Node.(token.Group); ok {
			length += minGroupLength(group)
			continue
		}
		length++
	}
	return length
}

func minGroupLength(g token.Group) int {
	min := -1
	for _, alt := range g.Alternatives {
		l := MinMatchLength(alt)
		if min == -1 || l < min {
			min = l
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

// StartIndices computes the candidate start positions (spec.md §4.3
// step 2): just 0 if the pattern is start-anchored, otherwise every
// position from 0 through len(subject)-minLength inclusive (an empty
// range when the subject is too short).
func StartIndices(subjectLen, minLength int, startAnchor bool) []int {
	if startAnchor {
		if minLength > subjectLen {
			return nil
		}
		return []int{0}
	}
	last := subjectLen - minLength
	if last < 0 {
		return nil
	}
	indices := make([]int, 0, last+1)
	for i := 0; i <= last; i++ {
		indices = append(indices, i)
	}
	return indices
}
