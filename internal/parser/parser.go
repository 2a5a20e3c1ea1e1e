// Package parser tokenizes a pattern string in the restricted regex
// dialect described by the spec: literals, '.', '\d'/'\w'/escaped
// literals, bracket character classes (no ranges), parenthesized
// groups with '|' alternation and capture numbering, backreferences,
// and '+'/'?' quantifiers. Anchors ('^', '$') are recognized but never
// emitted as tokens.
package parser

import (
	"fmt"

	"github.com/anbasement/greplex/internal/token"
)

// Parsed is the parser's output: a token sequence plus the two anchor
// flags carried alongside it.
type Parsed struct {
	Tokens      []token.Token
	StartAnchor bool
	EndAnchor   bool
}

// SyntaxError reports a malformed pattern at a byte offset into the
// original pattern string.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid pattern at offset %d: %s", e.Offset, e.Msg)
}

func syntaxErrorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// groupCounter assigns capture-group numbers in pre-order, shared by
// reference across all recursive calls for a single Parse.
type groupCounter struct {
	n int
}

func (c *groupCounter) next() int {
	c.n++
	return c.n
}

// Parse tokenizes pattern and reports the start/end anchor flags.
func Parse(pattern string) (*Parsed, error) {
	counter := &groupCounter{}
	tokens, start, end, err := parseWithAnchors(pattern, 0, counter)
	if err != nil {
		return nil, err
	}
	return &Parsed{Tokens: tokens, StartAnchor: start, EndAnchor: end}, nil
}

// parseWithAnchors peels a leading '^' and a trailing '$' from s
// (s begins at absolute offset base in the original pattern), then
// tokenizes what remains. Used for both the top-level pattern and
// every group alternative — a leading '^' and a trailing '$' are
// stripped from each nested alternative too, though only the outermost
// flags are surfaced to the caller.
func parseWithAnchors(s string, base int, counter *groupCounter) (toks []token.Token, start, end bool, err error) {
	start = len(s) > 0 && s[0] == '^'
	end = len(s) > 0 && s[len(s)-1] == '$'
	if start {
		s = s[1:]
		base++
	}
	if end {
		s = s[:len(s)-1]
	}
	toks, err = parseTokens(s, base, counter)
	return toks, start, end, err
}

// parseTokens scans s left to right, emitting one token per
// recognized construct and attaching a trailing '+'/'?' quantifier to
// whichever token was just emitted.
func parseTokens(s string, base int, counter *groupCounter) ([]token.Token, error) {
	var toks []token.Token
	i := 0
	for i < len(s) {
		c := s[i]
		var node token.Node
		var width int

		switch {
		case c == '\\':
			if i+1 >= len(s) {
				return nil, syntaxErrorf(base+i, "dangling '\\' at end of pattern")
			}
			if isDigit(s[i+1]) {
				j := i + 1
				for j < len(s) && isDigit(s[j]) {
					j++
				}
				num := atoi(s[i+1 : j])
				if num == 0 {
					return nil, syntaxErrorf(base+i, "backreference to group 0; groups are numbered from 1")
				}
				node = token.Backreference{Number: num}
				width = j - i
			} else {
				node = token.Escape{Body: s[i : i+2]}
				width = 2
			}

		case c == '[':
			end := indexByteFrom(s, i+1, ']')
			if end == -1 {
				return nil, syntaxErrorf(base+i, "unterminated character class, missing ']'")
			}
			node = token.CharClass{Body: s[i : end+1]}
			width = end + 1 - i

		case c == '.':
			node = token.Wildcard{}
			width = 1

		case c == '(':
			end, ferr := matchingParen(s, i, base)
			if ferr != nil {
				return nil, ferr
			}
			content := s[i+1 : end]
			number := counter.next()
			altStrs := splitAlternatives(content)
			altOffset := i + 1
			alternatives := make([][]token.Token, 0, len(altStrs))
			for _, alt := range altStrs {
				altToks, _, _, aerr := parseWithAnchors(alt, base+altOffset, counter)
				if aerr != nil {
					return nil, aerr
				}
				alternatives = append(alternatives, altToks)
				altOffset += len(alt) + 1 // +1 for the consumed '|'
			}
			node = token.Group{Alternatives: alternatives, Number: number}
			width = end + 1 - i

		default:
			node = token.Literal{Char: c}
			width = 1
		}

		i += width
		quant := token.None
		if i < len(s) && (s[i] == '+' || s[i] == '?') {
			if s[i] == '+' {
				quant = token.OneOrMore
			} else {
				quant = token.ZeroOrOne
			}
			i++
		}
		toks = append(toks, token.Token{Node: node, Quant: quant})
	}
	return toks, nil
}

// matchingParen locates the ')' matching the '(' at s[open], tracking
// nested-parenthesis depth; '|' does not affect depth.
func matchingParen(s string, open int, base int) (int, error) {
	depth := 1
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, syntaxErrorf(base+open, "unmatched '(' ")
}

// splitAlternatives splits body on top-level '|' characters (depth
// zero with respect to parentheses).
func splitAlternatives(body string) []string {
	var alts []string
	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth == 0 {
				alts = append(alts, body[start:i])
				start = i + 1
			}
		}
	}
	alts = append(alts, body[start:])
	return alts
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

func indexByteFrom(s string, from int, b byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
