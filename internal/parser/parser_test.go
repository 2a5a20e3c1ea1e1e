package parser

import (
	"testing"

	"github.com/anbasement/greplex/internal/token"
)

func TestParseAnchors(t *testing.T) {
	p, err := Parse("^abc$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.StartAnchor || !p.EndAnchor {
		t.Error("expected both anchors set")
	}
	if len(p.Tokens) != 3 {
		t.Fatalf("expected 3 literal tokens, got %d", len(p.Tokens))
	}
}

func TestParseLiteralRun(t *testing.T) {
	p, err := Parse("abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.StartAnchor || p.EndAnchor {
		t.Error("expected no anchors")
	}
	for i, want := range []byte("abc") {
		lit, ok := p.Tokens[i].Node.(token.Literal)
		if !ok || lit.Char != want {
			t.Errorf("token %d: expected literal %q, got %#v", i, want, p.Tokens[i].Node)
		}
	}
}

func TestParseWildcardAndEscape(t *testing.T) {
	p, err := Parse(`a.\d\w\.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(p.Tokens))
	}
	if _, ok := p.Tokens[1].Node.(token.Wildcard); !ok {
		t.Errorf("expected wildcard, got %#v", p.Tokens[1].Node)
	}
	esc, ok := p.Tokens[2].Node.(token.Escape)
	if !ok || esc.Body != `\d` {
		t.Errorf("expected \\d escape, got %#v", p.Tokens[2].Node)
	}
	esc, ok = p.Tokens[3].Node.(token.Escape)
	if !ok || esc.Body != `\w` {
		t.Errorf("expected \\w escape, got %#v", p.Tokens[3].Node)
	}
}

func TestParseQuantifiers(t *testing.T) {
	p, err := Parse("a+b?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Tokens[0].Quant != token.OneOrMore {
		t.Errorf("expected '+' on first token, got %v", p.Tokens[0].Quant)
	}
	if p.Tokens[1].Quant != token.ZeroOrOne {
		t.Errorf("expected '?' on second token, got %v", p.Tokens[1].Quant)
	}
}

func TestParseCharClass(t *testing.T) {
	p, err := Parse("[^xyz]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cc, ok := p.Tokens[0].Node.(token.CharClass)
	if !ok {
		t.Fatalf("expected char class, got %#v", p.Tokens[0].Node)
	}
	if !cc.Negated() || cc.Set() != "xyz" {
		t.Errorf("unexpected class: negated=%v set=%q", cc.Negated(), cc.Set())
	}
}

func TestParseUnterminatedCharClass(t *testing.T) {
	_, err := Parse("[abc")
	if err == nil {
		t.Fatal("expected error for unterminated character class")
	}
}

func TestParseDanglingBackslash(t *testing.T) {
	_, err := Parse(`abc\`)
	if err == nil {
		t.Fatal("expected error for dangling backslash")
	}
}

func TestParseUnbalancedParen(t *testing.T) {
	_, err := Parse("(ab")
	if err == nil {
		t.Fatal("expected error for unbalanced '('")
	}
}

func TestParseGroupAlternation(t *testing.T) {
	p, err := Parse("(dog|cat)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, ok := p.Tokens[0].Node.(token.Group)
	if !ok {
		t.Fatalf("expected group, got %#v", p.Tokens[0].Node)
	}
	if g.Number != 1 {
		t.Errorf("expected group number 1, got %d", g.Number)
	}
	if len(g.Alternatives) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(g.Alternatives))
	}
}

func TestParseNestedGroupNumbering(t *testing.T) {
	// Outer group gets number 1 (assigned before descending), inner
	// group gets number 2.
	p, err := Parse("stricter|(gun|laws)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Top level has no group of its own: "stricter|(gun|laws)" at the
	// top level is not inside parens, so it is not itself a capture
	// group — only the literal run and a nested group token appear in
	// sequence form. Exercise via an explicit outer group instead.
	p2, err := Parse("(stricter|(gun|laws))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := p2.Tokens[0].Node.(token.Group)
	if !ok {
		t.Fatalf("expected outer group, got %#v", p2.Tokens[0].Node)
	}
	if outer.Number != 1 {
		t.Errorf("expected outer group number 1, got %d", outer.Number)
	}
	// second alternative of outer is "(gun|laws)", a single group token
	secondAlt := outer.Alternatives[1]
	if len(secondAlt) != 1 {
		t.Fatalf("expected second alternative to be a single group token, got %d tokens", len(secondAlt))
	}
	inner, ok := secondAlt[0].Node.(token.Group)
	if !ok {
		t.Fatalf("expected inner group, got %#v", secondAlt[0].Node)
	}
	if inner.Number != 2 {
		t.Errorf("expected inner group number 2, got %d", inner.Number)
	}
	_ = p // silence unused in the early no-op parse above
}

func TestParseAlternativeSplittingIgnoresNestedPipe(t *testing.T) {
	p, err := Parse("(stricter|(gun|laws))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := p.Tokens[0].Node.(token.Group)
	if len(g.Alternatives) != 2 {
		t.Fatalf("expected 2 top-level alternatives, got %d", len(g.Alternatives))
	}
}

func TestParseBackreference(t *testing.T) {
	p, err := Parse(`(ab)\1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(p.Tokens))
	}
	br, ok := p.Tokens[1].Node.(token.Backreference)
	if !ok || br.Number != 1 {
		t.Errorf("expected backreference to group 1, got %#v", p.Tokens[1].Node)
	}
}

func TestParseBackreferenceMultiDigit(t *testing.T) {
	// The digit run after '\' is consumed maximally.
	p, err := Parse(`\12`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	br, ok := p.Tokens[0].Node.(token.Backreference)
	if !ok || br.Number != 12 {
		t.Errorf("expected backreference 12, got %#v", p.Tokens[0].Node)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	pattern := "^(ab|cd)+e?[xyz]\\1$"
	p1, err1 := Parse(pattern)
	p2, err2 := Parse(pattern)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if len(p1.Tokens) != len(p2.Tokens) {
		t.Fatalf("re-parsing produced different token counts: %d vs %d", len(p1.Tokens), len(p2.Tokens))
	}
	g1 := p1.Tokens[0].Node.(token.Group)
	g2 := p2.Tokens[0].Node.(token.Group)
	if g1.Number != g2.Number {
		t.Errorf("re-parsing produced different group numbers: %d vs %d", g1.Number, g2.Number)
	}
}
