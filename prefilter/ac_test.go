package prefilter

import (
	"testing"

	"github.com/la3lma/rmatch/charbuf"
	"github.com/la3lma/rmatch/literal"
	"github.com/la3lma/rmatch/nfa"
)

func seqOf(s string) *literal.Seq {
	return literal.NewSeq(literal.NewLiteral([]byte(s), true))
}

func TestACPrefilter_FindsLiteralOccurrence(t *testing.T) {
	f := BuildACPrefilter([]ACLiteralSource{
		{ID: 0, Hint: seqOf("hello")},
		{ID: 1, Hint: seqOf("world")},
	})
	buf := charbuf.New("say hello to the world")
	hits := f.Scan(buf)

	helloRune := len([]rune("say "))
	worldRune := len([]rune("say hello to the "))

	if pats, ok := hits[helloRune]; !ok || !containsPattern(pats, 0) {
		t.Errorf("hits[%d] = %v, want to contain pattern 0", helloRune, pats)
	}
	if pats, ok := hits[worldRune]; !ok || !containsPattern(pats, 1) {
		t.Errorf("hits[%d] = %v, want to contain pattern 1", worldRune, pats)
	}
}

func TestACPrefilter_PatternsWithoutHintUntouched(t *testing.T) {
	f := BuildACPrefilter([]ACLiteralSource{
		{ID: 0, Hint: literal.NewSeq()},
	})
	if f.HasHint(0) {
		t.Error("HasHint(0) = true, want false for an empty literal hint")
	}
}

func TestACPrefilter_CaseInsensitiveVariant(t *testing.T) {
	f := BuildACPrefilter([]ACLiteralSource{
		{ID: 0, Hint: seqOf("abc"), CaseInsensitive: true},
	})
	buf := charbuf.New("xx ABC yy")
	hits := f.Scan(buf)
	found := false
	for _, pats := range hits {
		if containsPattern(pats, 0) {
			found = true
		}
	}
	if !found {
		t.Error("expected the uppercase variant to be found for a case-insensitive hint")
	}
}

func containsPattern(pats []nfa.PatternID, id nfa.PatternID) bool {
	for _, p := range pats {
		if p == id {
			return true
		}
	}
	return false
}
