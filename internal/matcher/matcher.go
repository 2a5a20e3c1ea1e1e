// Package matcher implements the backtracking evaluator described in
// spec.md §4.2: given a token sequence, an end-anchor flag, a subject
// line, and a candidate start index, it decides whether the tokens
// match, threading a capture map through the backtracking discipline.
//
// There are two recursive routines, not three: tryMatch is the
// top-level backtracker (alternation order, longest-group-length-first
// exploration, tail continuation, end-anchor check). walkSequence is a
// single straight-line greedy walk parameterized by an optional cursor
// bound (limit == -1 means unbounded); it is used both to measure how
// far a group's alternative can reach unbounded (the "+"/"?"
// group-quantifier cases) and bounded (the candidate-length probe for
// an unquantified group). This collapses the reference implementation's
// three near-identical routines into two.
package matcher

import (
	"maps"

	"github.com/anbasement/greplex/internal/token"
)

// Captures maps capture-group number to the captured substring.
type Captures map[int]string

// Match attempts to match tokens against subject starting at start. On
// success it returns the populated capture map for the winning branch;
// on failure it returns (false, nil).
func Match(tokens []token.Token, endAnchor bool, subject string, start int) (bool, Captures) {
	captures := Captures{}
	if tryMatch(tokens, 0, subject, start, endAnchor, captures) {
		return true, captures
	}
	return false, nil
}

// tryMatch is the top-level backtracking matcher (spec.md §4.2).
func tryMatch(tokens []token.Token, idx int, subject string, pos int, endAnchor bool, captures Captures) bool {
	if idx == len(tokens) {
		if endAnchor {
			return pos == len(subject)
		}
		return true
	}

	tok := tokens[idx]

	if group, ok := tok.Node.(token.Group); ok {
		return tryMatchGroup(tokens, idx, group, tok.Quant, subject, pos, endAnchor, captures)
	}

	if backref, ok := tok.Node.(token.Backreference); ok {
		captured, present := captures[backref.Number]
		if !present {
			return false
		}
		if pos+len(captured) > len(subject) || subject[pos:pos+len(captured)] != captured {
			return false
		}
		return tryMatch(tokens, idx+1, subject, pos+len(captured), endAnchor, captures)
	}

	switch tok.Quant {
	case token.OneOrMore:
		maxCount := countGreedy(subject, pos, tok.Node)
		if maxCount == 0 {
			return false
		}
		for count := maxCount; count >= 1; count-- {
			if tryMatch(tokens, idx+1, subject, pos+count, endAnchor, captures) {
				return true
			}
		}
		return false

	case token.ZeroOrOne:
		if pos < len(subject) && token.MatchesChar(tok.Node, subject[pos]) {
			if tryMatch(tokens, idx+1, subject, pos+1, endAnchor, captures) {
				return true
			}
		}
		return tryMatch(tokens, idx+1, subject, pos, endAnchor, captures)

	default:
		if pos >= len(subject) || !token.MatchesChar(tok.Node, subject[pos]) {
			return false
		}
		return tryMatch(tokens, idx+1, subject, pos+1, endAnchor, captures)
	}
}

func tryMatchGroup(tokens []token.Token, idx int, group token.Group, quant token.Quantifier, subject string, pos int, endAnchor bool, captures Captures) bool {
	saved := maps.Clone(captures)
	groupStart := pos

	switch quant {
	case token.OneOrMore:
		// Only one iteration of the alternatives is attempted before
		// proceeding to the tail — spec.md §9 documents this as the
		// faithfully-reproduced behavior of the single dialect, not a
		// POSIX-style "(...)(...)*" expansion.
		for _, alt := range group.Alternatives {
			tmp := maps.Clone(saved)
			ok, newPos := walkSequence(alt, subject, pos, -1, tmp)
			if !ok {
				continue
			}
			test := maps.Clone(saved)
			maps.Copy(test, tmp)
			test[group.Number] = subject[groupStart:newPos]
			if tryMatch(tokens, idx+1, subject, newPos, endAnchor, test) {
				commit(captures, test)
				return true
			}
		}
		return false

	case token.ZeroOrOne:
		for _, alt := range group.Alternatives {
			tmp := maps.Clone(saved)
			ok, newPos := walkSequence(alt, subject, pos, -1, tmp)
			if !ok {
				continue
			}
			test := maps.Clone(saved)
			maps.Copy(test, tmp)
			test[group.Number] = subject[groupStart:newPos]
			if tryMatch(tokens, idx+1, subject, newPos, endAnchor, test) {
				commit(captures, test)
				return true
			}
		}
		// Skip the group entirely: the group number is not written.
		return tryMatch(tokens, idx+1, subject, pos, endAnchor, captures)

	default:
		// Unquantified: explore every admissible consumed length for
		// the alternative, longest first, so the longest group match
		// compatible with overall success is preferred.
		maxPossible := len(subject) - pos
		for length := maxPossible; length >= 0; length-- {
			for _, alt := range group.Alternatives {
				tmp := maps.Clone(saved)
				ok, endPos := walkSequence(alt, subject, pos, length, tmp)
				if !ok {
					continue
				}
				test := maps.Clone(saved)
				maps.Copy(test, tmp)
				test[group.Number] = subject[groupStart:endPos]
				if tryMatch(tokens, idx+1, subject, endPos, endAnchor, test) {
					commit(captures, test)
					return true
				}
			}
		}
		return false
	}
}

// commit replaces captures' contents with final's, in place, so the
// caller's map reference keeps reflecting the winning branch.
func commit(captures, final Captures) {
	clear(captures)
	maps.Copy(captures, final)
}

// walkSequence greedily walks tokens once, left to right, with no
// backtracking search of its own: quantified atoms consume the
// maximum they can (capped by limit, if bounded), and a Group token
// takes the first alternative that walks successfully. It reports
// whether the whole sequence walked to completion and the resulting
// cursor. limit == -1 means no bound; otherwise the walk fails if the
// cursor ends up past start+limit.
func walkSequence(tokens []token.Token, subject string, start int, limit int, captures Captures) (bool, int) {
	pos := start
	for _, tok := range tokens {
		if limit >= 0 && pos-start > limit {
			return false, start
		}

		if group, ok := tok.Node.(token.Group); ok {
			saved := maps.Clone(captures)
			groupStart := pos
			remaining := -1
			if limit >= 0 {
				remaining = limit - (pos - start)
			}
			matched := false
			for _, alt := range group.Alternatives {
				tmp := maps.Clone(saved)
				ok, newPos := walkSequence(alt, subject, pos, remaining, tmp)
				if ok {
					maps.Copy(captures, tmp)
					captures[group.Number] = subject[groupStart:newPos]
					pos = newPos
					matched = true
					break
				}
			}
			if !matched && tok.Quant != token.ZeroOrOne {
				return false, start
			}
			continue
		}

		if backref, ok := tok.Node.(token.Backreference); ok {
			captured, present := captures[backref.Number]
			if !present {
				return false, start
			}
			if pos+len(captured) > len(subject) || subject[pos:pos+len(captured)] != captured {
				return false, start
			}
			pos += len(captured)
			continue
		}

		switch tok.Quant {
		case token.OneOrMore:
			count := countGreedy(subject, pos, tok.Node)
			if limit >= 0 {
				remaining := limit - (pos - start)
				if count > remaining {
					count = remaining
				}
			}
			if count == 0 {
				return false, start
			}
			pos += count

		case token.ZeroOrOne:
			if pos < len(subject) && token.MatchesChar(tok.Node, subject[pos]) {
				pos++
			}

		default:
			if pos >= len(subject) || !token.MatchesChar(tok.Node, subject[pos]) {
				return false, start
			}
			pos++
		}
	}
	if limit >= 0 && pos-start > limit {
		return false, start
	}
	return true, pos
}

// countGreedy returns the length of the maximal run of consecutive
// subject characters (starting at pos) that satisfy n.
func countGreedy(subject string, pos int, n token.Node) int {
	count := 0
	for pos+count < len(subject) && token.MatchesChar(n, subject[pos+count]) {
		count++
	}
	return count
}
