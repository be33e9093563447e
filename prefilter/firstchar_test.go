package prefilter

import (
	"testing"

	"github.com/la3lma/rmatch/nfa"
)

func TestFirstCharFilter_ExactMatch(t *testing.T) {
	f := BuildFirstCharFilter([]PatternSource{
		{ID: 0, FirstChars: map[rune]bool{'a': true}, ExactFirstChars: true},
		{ID: 1, FirstChars: map[rune]bool{'b': true}, ExactFirstChars: true},
	})
	got := f.Candidates('a', nil)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Candidates('a') = %v, want [0]", got)
	}
	got = f.Candidates('c', nil)
	if len(got) != 0 {
		t.Errorf("Candidates('c') = %v, want []", got)
	}
}

func TestFirstCharFilter_InexactAlwaysIncluded(t *testing.T) {
	f := BuildFirstCharFilter([]PatternSource{
		{ID: 0, ExactFirstChars: false},
		{ID: 1, FirstChars: map[rune]bool{'b': true}, ExactFirstChars: true},
	})
	got := f.Candidates('z', nil)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Candidates('z') = %v, want [0] (inexact pattern always present)", got)
	}
}

func TestFirstCharFilter_DstReuse(t *testing.T) {
	f := BuildFirstCharFilter([]PatternSource{
		{ID: 0, FirstChars: map[rune]bool{'a': true}, ExactFirstChars: true},
	})
	dst := make([]nfa.PatternID, 0, 4)
	dst = f.Candidates('a', dst)
	if len(dst) != 1 {
		t.Fatalf("len(dst) = %d, want 1", len(dst))
	}
	dst = dst[:0]
	dst = f.Candidates('a', dst)
	if len(dst) != 1 {
		t.Fatalf("after reuse, len(dst) = %d, want 1", len(dst))
	}
}
