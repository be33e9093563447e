package registry

import (
	"testing"

	"github.com/la3lma/rmatch/nfa"
)

func TestRegistry_AddAssignsAscendingIDs(t *testing.T) {
	r := New()
	id0, err := r.Add("abc", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id1, err := r.Add("def", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id0 != 0 || id1 != 1 {
		t.Errorf("ids = %d, %d, want 0, 1", id0, id1)
	}
	if len(r.Patterns()) != 2 {
		t.Errorf("Patterns() has %d entries, want 2", len(r.Patterns()))
	}
}

func TestRegistry_AddCompileErrorLeavesRegistryUnchanged(t *testing.T) {
	r := New()
	if _, err := r.Add("abc", nfa.DefaultCompilerConfig(), nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Add("a(", nfa.DefaultCompilerConfig(), nil); err == nil {
		t.Fatal("expected compile error for unbalanced paren")
	}
	if len(r.Patterns()) != 1 {
		t.Errorf("Patterns() has %d entries after failed Add, want 1", len(r.Patterns()))
	}
}

func TestRegistry_FirstCharsExactLiteral(t *testing.T) {
	r := New()
	id, err := r.Add("cat", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p, ok := r.Get(id)
	if !ok {
		t.Fatal("pattern not found")
	}
	if !p.ExactFirstChars {
		t.Fatal("expected exact first-char set for literal pattern")
	}
	if !p.FirstChars['c'] || len(p.FirstChars) != 1 {
		t.Errorf("FirstChars = %v, want {c}", p.FirstChars)
	}
}

func TestRegistry_FirstCharsAlternation(t *testing.T) {
	r := New()
	id, err := r.Add("cat|dog", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p, _ := r.Get(id)
	if !p.ExactFirstChars {
		t.Fatal("expected exact first-char set for alternation of literals")
	}
	if !p.FirstChars['c'] || !p.FirstChars['d'] || len(p.FirstChars) != 2 {
		t.Errorf("FirstChars = %v, want {c, d}", p.FirstChars)
	}
}

func TestRegistry_FirstCharsInexactOnDot(t *testing.T) {
	r := New()
	id, err := r.Add(".foo", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p, _ := r.Get(id)
	if p.ExactFirstChars {
		t.Fatal("expected inexact first-char set for a pattern starting with '.'")
	}
}

func TestRegistry_LiteralHint(t *testing.T) {
	r := New()
	id, err := r.Add("hello", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p, _ := r.Get(id)
	if p.LiteralHint == nil || p.LiteralHint.Len() != 1 || string(p.LiteralHint.Get(0).Bytes) != "hello" {
		t.Errorf("LiteralHint = %v, want [hello]", p.LiteralHint)
	}
}

func TestRegistry_RemoveRejectedDuringMatch(t *testing.T) {
	r := New()
	id, err := r.Add("abc", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.BeginMatch()
	if err := r.Remove(id); err == nil {
		t.Fatal("expected Remove to be rejected during an in-flight match")
	}
	r.EndMatch()
	if err := r.Remove(id); err != nil {
		t.Fatalf("Remove after EndMatch: %v", err)
	}
	if len(r.Patterns()) != 0 {
		t.Errorf("Patterns() has %d entries after Remove, want 0", len(r.Patterns()))
	}
}

func TestRegistry_OwnerRecoversPatternFromNodeRange(t *testing.T) {
	r := New()
	id0, err := r.Add("abc", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id1, err := r.Add("defgh", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p0, _ := r.Get(id0)
	p1, _ := r.Get(id1)

	if owner, ok := r.Owner(p0.NodeLo); !ok || owner != id0 {
		t.Errorf("Owner(%d) = %d, %v, want %d, true", p0.NodeLo, owner, ok, id0)
	}
	if owner, ok := r.Owner(p1.NodeLo); !ok || owner != id1 {
		t.Errorf("Owner(%d) = %d, %v, want %d, true", p1.NodeLo, owner, ok, id1)
	}
	if p0.NodeHi != p1.NodeLo {
		t.Errorf("pattern node ranges not contiguous: p0.NodeHi=%d, p1.NodeLo=%d", p0.NodeHi, p1.NodeLo)
	}
}

func TestRegistry_MinLiteralLenDropsShortHints(t *testing.T) {
	r := New()
	r.SetMinLiteralLen(5)
	id, err := r.Add("hi|world", nfa.DefaultCompilerConfig(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p, _ := r.Get(id)
	if p.LiteralHint != nil {
		t.Errorf("LiteralHint = %v, want nil (one alternative shorter than min length 5)", p.LiteralHint)
	}
}

func TestRegistry_SharedStoreAcrossPatterns(t *testing.T) {
	r := New()
	if _, err := r.Add("ab", nfa.DefaultCompilerConfig(), nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := r.Store().Len()
	if _, err := r.Add("cd", nfa.DefaultCompilerConfig(), nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.Store().Len() <= before {
		t.Errorf("Store().Len() did not grow after second Add")
	}
}
