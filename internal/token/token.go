// Package token defines the tagged-sum representation of a parsed
// pattern: one Go type per dialect variant, decorated with an optional
// quantifier. Tokens are produced by internal/parser and consumed by
// internal/matcher; once built they are never mutated.
package token

// Quantifier decorates a Node with a repetition rule. The zero value
// means "exactly one".
type Quantifier int

const (
	// None means the token must match exactly once.
	None Quantifier = iota
	// OneOrMore is the greedy '+' quantifier.
	OneOrMore
	// ZeroOrOne is the greedy '?' quantifier.
	ZeroOrOne
)

func (q Quantifier) String() string {
	switch q {
	case OneOrMore:
		return "+"
	case ZeroOrOne:
		return "?"
	default:
		return ""
	}
}

// Node is implemented by every token variant. The interface carries no
// behavior beyond identifying a value as a token payload; the matcher
// dispatches on concrete type via a type switch rather than a string
// tag.
type Node interface {
	node()
}

// Literal matches one exact character.
type Literal struct {
	Char byte
}

func (Literal) node() {}

// Wildcard matches any single character ('.').
type Wildcard struct{}

func (Wildcard) node() {}

// Escape is a two-character escape body (e.g. "\\d", "\\w", "\\.").
// Body[0] is always '\\'.
type Escape struct {
	Body string
}

func (Escape) node() {}

// CharClass is a raw bracket expression including the enclosing
// brackets, e.g. "[abc]" or "[^xyz]". No escape processing happens
// inside the class body.
type CharClass struct {
	Body string
}

func (CharClass) node() {}

// Negated reports whether the class is a negated set ([^...]).
func (c CharClass) Negated() bool {
	return len(c.Body) > 2 && c.Body[1] == '^'
}

// Set returns the raw set of characters enumerated in the class body
// (no range expansion, per the dialect's non-goals).
func (c CharClass) Set() string {
	if c.Negated() {
		return c.Body[2 : len(c.Body)-1]
	}
	return c.Body[1 : len(c.Body)-1]
}

// Group is an ordered list of alternatives, each a token sequence, and
// the capture number assigned to whichever alternative ultimately
// matches.
type Group struct {
	Alternatives [][]Token
	Number       int
}

func (Group) node() {}

// Backreference demands the subject at the cursor equal the substring
// previously captured under Number.
type Backreference struct {
	Number int
}

func (Backreference) node() {}

// Token pairs a Node with its quantifier decoration.
type Token struct {
	Node  Node
	Quant Quantifier
}

// MatchesChar reports whether c satisfies a Literal, Wildcard, Escape,
// or CharClass token. It is undefined for Group and Backreference,
// which the matcher special-cases because they don't reduce to a
// single-character predicate.
func MatchesChar(n Node, c byte) bool {
	switch v := n.(type) {
	case Literal:
		return c == v.Char
	case Wildcard:
		return true
	case Escape:
		switch v.Body {
		case `\d`:
			return isDigit(c)
		case `\w`:
			return isWordChar(c)
		default:
			return c == v.Body[1]
		}
	case CharClass:
		set := v.Set()
		in := containsByte(set, c)
		if v.Negated() {
			return !in
		}
		return in
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordChar(c byte) bool {
	return isDigit(c) ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_'
}

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}
