package dfa

import (
	"testing"

	"github.com/la3lma/rmatch/nfa"
)

func compilePattern(t *testing.T, store *nfa.Store, id nfa.PatternID, pattern string) nfa.NodeID {
	t.Helper()
	c := nfa.NewCompiler(store)
	start, err := c.Compile(id, pattern, nfa.DefaultCompilerConfig())
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return start
}

func TestStore_StartInternsIdenticalFrontiers(t *testing.T) {
	nstore := nfa.NewStore()
	start := compilePattern(t, nstore, 0, "ab")
	store := NewStore(nstore, 0)

	look := nfa.LookSetAt(0, 2, func(int) (rune, bool) { return 0, false }, func(i int) (rune, bool) {
		if i == 0 {
			return 'a', true
		}
		return 0, false
	})

	s1, err := store.Start([]nfa.NodeID{start}, look)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s2, err := store.Start([]nfa.NodeID{start}, look)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s1 != s2 {
		t.Errorf("expected identical frontiers to intern to the same *State")
	}
}

func TestStore_StepsToAcceptingState(t *testing.T) {
	nstore := nfa.NewStore()
	start := compilePattern(t, nstore, 0, "ab")
	store := NewStore(nstore, 0)

	atStart := func(i int) (rune, bool) {
		runes := []rune("ab")
		if i < len(runes) {
			return runes[i], true
		}
		return 0, false
	}
	before := func(i int) (rune, bool) { return atStart(i - 1) }

	s0, err := store.Start([]nfa.NodeID{start}, nfa.LookSetAt(0, 2, before, atStart))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s0.IsDead() {
		t.Fatal("start state should not be dead")
	}

	s1, err := store.Successor(s0, 'a', nfa.LookSetAt(1, 2, before, atStart))
	if err != nil {
		t.Fatalf("Successor('a'): %v", err)
	}
	if s1.IsDead() {
		t.Fatal("state after 'a' should not be dead")
	}

	s2, err := store.Successor(s1, 'b', nfa.LookSetAt(2, 2, before, atStart))
	if err != nil {
		t.Fatalf("Successor('b'): %v", err)
	}
	if !s2.Accepts(0) {
		t.Errorf("state after \"ab\" should accept pattern 0")
	}
}

func TestStore_DeadStateOnMismatch(t *testing.T) {
	nstore := nfa.NewStore()
	start := compilePattern(t, nstore, 0, "ab")
	store := NewStore(nstore, 0)

	atStart := func(i int) (rune, bool) {
		runes := []rune("xb")
		if i < len(runes) {
			return runes[i], true
		}
		return 0, false
	}
	before := func(i int) (rune, bool) { return atStart(i - 1) }

	s0, err := store.Start([]nfa.NodeID{start}, nfa.LookSetAt(0, 2, before, atStart))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s1, err := store.Successor(s0, 'x', nfa.LookSetAt(1, 2, before, atStart))
	if err != nil {
		t.Fatalf("Successor('x'): %v", err)
	}
	if !s1.IsDead() {
		t.Errorf("expected dead state after mismatched rune, got %v", s1)
	}
}

func TestStore_MultiPatternSharedState(t *testing.T) {
	nstore := nfa.NewStore()
	start0 := compilePattern(t, nstore, 0, "ab")
	start1 := compilePattern(t, nstore, 1, "ac")
	store := NewStore(nstore, 0)

	runes := []rune("ab")
	atStart := func(i int) (rune, bool) {
		if i < len(runes) {
			return runes[i], true
		}
		return 0, false
	}
	before := func(i int) (rune, bool) { return atStart(i - 1) }

	s0, err := store.Start([]nfa.NodeID{start0, start1}, nfa.LookSetAt(0, 2, before, atStart))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s1, err := store.Successor(s0, 'a', nfa.LookSetAt(1, 2, before, atStart))
	if err != nil {
		t.Fatalf("Successor('a'): %v", err)
	}
	if len(s1.Chars()) != 2 {
		t.Fatalf("expected both patterns' second char node still live, got %d", len(s1.Chars()))
	}
	s2, err := store.Successor(s1, 'b', nfa.LookSetAt(2, 2, before, atStart))
	if err != nil {
		t.Fatalf("Successor('b'): %v", err)
	}
	if !s2.Accepts(0) || s2.Accepts(1) {
		t.Errorf("expected only pattern 0 to accept on \"ab\", got accepts=%v", s2.AcceptedPatterns())
	}
}

func TestStore_MaxStatesExceeded(t *testing.T) {
	nstore := nfa.NewStore()
	start := compilePattern(t, nstore, 0, "abcdef")
	store := NewStore(nstore, 1)

	atStart := func(i int) (rune, bool) {
		runes := []rune("abcdef")
		if i < len(runes) {
			return runes[i], true
		}
		return 0, false
	}
	before := func(i int) (rune, bool) { return atStart(i - 1) }

	if _, err := store.Start([]nfa.NodeID{start}, nfa.LookSetAt(0, 6, before, atStart)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s0, _ := store.Start([]nfa.NodeID{start}, nfa.LookSetAt(0, 6, before, atStart))
	if _, err := store.Successor(s0, 'a', nfa.LookSetAt(1, 6, before, atStart)); err == nil {
		t.Fatal("expected ErrCacheFull once the one-state budget is exhausted")
	}
}
