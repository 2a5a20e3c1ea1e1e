package search

import (
	"strings"
	"testing"
)

func TestScenarioTable(t *testing.T) {
	cases := []struct {
		pattern, subject string
		want             bool
	}{
		{"^abc$", "abc", true},
		{"^abc$", "xabc", false},
		{"a+b", "aaaab", true},
		{"a?b", "b", true},
		{"(dog|cat)", "cat", true},
		{`(ab)\1`, "abab", true},
		{`(ab)\1`, "aba", false},
		{"[^xyz]", "a", true},
		{`\w\d_`, "a1_", true},
		{"(cat|dog)s?", "cats", true},
	}
	for _, c := range cases {
		got := ContainsMatch(c.pattern, c.subject, false)
		if got != c.want {
			t.Errorf("ContainsMatch(%q, %q) = %v, want %v", c.pattern, c.subject, got, c.want)
		}
	}
}

func TestLiteralExactness(t *testing.T) {
	subjects := []string{"hello world", "no match here", "worldly"}
	for _, s := range subjects {
		got := ContainsMatch("world", s, false)
		want := strings.Contains(s, "world")
		if got != want {
			t.Errorf("ContainsMatch(\"world\", %q) = %v, want %v", s, got, want)
		}
	}
}

func TestAnchorMonotonicity(t *testing.T) {
	patterns := []string{"abc", "a+b", "(cat|dog)", `\w+`}
	subjects := []string{"xabcx", "aaab", "dog house", "hello123"}
	for _, p := range patterns {
		for _, s := range subjects {
			if ContainsMatch("^"+p, s, false) && !ContainsMatch(p, s, false) {
				t.Errorf("anchor monotonicity violated: ^%s matched %q but %s did not", p, s, p)
			}
			if ContainsMatch(p+"$", s, false) && !ContainsMatch(p, s, false) {
				t.Errorf("anchor monotonicity violated: %s$ matched %q but %s did not", p, s, p)
			}
		}
	}
}

func TestMinLengthSoundness(t *testing.T) {
	p, err := Compile("abcdef", false)
	if err != nil {
		t.Fatal(err)
	}
	if p.minLength != 6 {
		t.Fatalf("expected min length 6, got %d", p.minLength)
	}
	if p.MatchString("abcde") {
		t.Error("expected no match: subject shorter than minimum match length")
	}
}

func TestMinMatchLengthWithQuantifiers(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"abc", 3},
		{"a?bc", 2},
		{"a+bc", 3},
		{"(ab|c)", 1},
		{"(ab|c)?", 0},
	}
	for _, tt := range tests {
		parsed, err := Compile(tt.pattern, false)
		if err != nil {
			t.Fatalf("compile %q: %v", tt.pattern, err)
		}
		if parsed.minLength != tt.want {
			t.Errorf("MinMatchLength(%q) = %d, want %d", tt.pattern, parsed.minLength, tt.want)
		}
	}
}

func TestIgnoreCase(t *testing.T) {
	if !ContainsMatch("HELLO", "say hello there", true) {
		t.Error("expected case-insensitive match")
	}
	if ContainsMatch("HELLO", "say hello there", false) {
		t.Error("expected case-sensitive non-match")
	}
}

func TestMalformedPatternIsNonMatchNotPanic(t *testing.T) {
	if ContainsMatch("(unterminated", "anything", false) {
		t.Error("expected malformed pattern to report no match, not panic")
	}
}

func TestDeterminism(t *testing.T) {
	pattern := `(ab|a)+c\1`
	subject := "abcab"
	first := ContainsMatch(pattern, subject, false)
	for i := 0; i < 20; i++ {
		if ContainsMatch(pattern, subject, false) != first {
			t.Fatal("ContainsMatch is not deterministic across repeated calls")
		}
	}
}

func TestFindSubmatchCaptureConsistency(t *testing.T) {
	ok, caps := FindSubmatch(`(ab)\1`, "xxababyy", false)
	if !ok {
		t.Fatal("expected match")
	}
	if caps[1] != "ab" {
		t.Errorf("expected capture 1 = 'ab', got %q", caps[1])
	}
}

func TestEmptyRangeWhenSubjectTooShort(t *testing.T) {
	indices := StartIndices(2, 5, false)
	if indices != nil {
		t.Errorf("expected no candidate start indices, got %v", indices)
	}
}

func TestStartAnchorSingleCandidate(t *testing.T) {
	indices := StartIndices(10, 2, true)
	if len(indices) != 1 || indices[0] != 0 {
		t.Errorf("expected single candidate [0], got %v", indices)
	}
}
