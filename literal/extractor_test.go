package literal

import (
	"regexp/syntax"
	"testing"
)

func mustParse(t *testing.T, pattern string) *syntax.Regexp {
	t.Helper()
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		t.Fatalf("syntax.Parse(%q): %v", pattern, err)
	}
	return re.Simplify()
}

func seqStrings(s *Seq) []string {
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		out[i] = string(s.Get(i).Bytes)
	}
	return out
}

func TestExtractor_Literal(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParse(t, "hello"))
	if got := seqStrings(seq); len(got) != 1 || got[0] != "hello" {
		t.Errorf("ExtractPrefixes(hello) = %v, want [hello]", got)
	}
}

func TestExtractor_Alternate(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParse(t, "cat|dog"))
	got := seqStrings(seq)
	if len(got) != 2 {
		t.Fatalf("ExtractPrefixes(cat|dog) = %v, want 2 literals", got)
	}
}

func TestExtractor_NoPrefixOnWildcard(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParse(t, ".*foo"))
	if !seq.IsEmpty() {
		t.Errorf("ExtractPrefixes(.*foo) = %v, want empty", seqStrings(seq))
	}
}

func TestExtractor_ConcatWithClass(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParse(t, "ab[cd]e"))
	got := seqStrings(seq)
	want := map[string]bool{"abce": true, "abde": true}
	if len(got) != 2 {
		t.Fatalf("ExtractPrefixes(ab[cd]e) = %v, want 2 literals", got)
	}
	for _, g := range got {
		if !want[g] {
			t.Errorf("unexpected literal %q", g)
		}
	}
}

func TestExtractor_LargeClassNotExpanded(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParse(t, "[a-z]foo"))
	if !seq.IsEmpty() {
		t.Errorf("ExtractPrefixes([a-z]foo) = %v, want empty (class too large)", seqStrings(seq))
	}
}

func TestExtractor_CaseInsensitiveSkipped(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParse(t, "(?i)hello"))
	if !seq.IsEmpty() {
		t.Errorf("ExtractPrefixes((?i)hello) = %v, want empty", seqStrings(seq))
	}
}

func TestSeq_Minimize(t *testing.T) {
	seq := NewSeq(NewLiteral([]byte("foo"), true), NewLiteral([]byte("foobar"), true))
	seq.Minimize()
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "foo" {
		t.Errorf("Minimize() = %v, want [foo]", seqStrings(seq))
	}
}
