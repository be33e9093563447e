// Package dfa builds a lazy, content-addressed DFA over the shared NFA
// arena: states are sets of NFA node ids, computed on demand as the
// driver steps through input, and interned so that two spawns which
// happen to land on the same node set share one State (spec.md §4.2).
package dfa

import (
	"sort"

	"github.com/la3lma/rmatch/internal/sparse"
	"github.com/la3lma/rmatch/nfa"
)

// Frontier is the result of an epsilon-closure: the Char nodes reachable
// by consuming one more rune, plus which patterns are already accepted
// (Match nodes reached without consuming anything further).
type Frontier struct {
	Chars      []nfa.NodeID
	Terminals  []nfa.PatternID
}

// Closure computes the epsilon-closure of seeds under Epsilon, Split, and
// Look edges (Look edges only followed when look is satisfied), grounded
// on the teacher's DFA builder epsilonClosure (dfa/lazy/builder.go),
// generalized from bytes to runes and from a single NFA to the shared
// multi-pattern arena. scratch is reused across calls to avoid
// allocation; its capacity must be at least store.Len().
func Closure(store *nfa.Store, seeds []nfa.NodeID, look nfa.LookSet, scratch *sparse.SparseSet) Frontier {
	scratch.Clear()
	var f Frontier

	var walk func(id nfa.NodeID)
	walk = func(id nfa.NodeID) {
		if id == nfa.InvalidNode || scratch.Contains(uint32(id)) {
			return
		}
		scratch.Insert(uint32(id))
		n := store.Node(id)
		switch n.Kind() {
		case nfa.KindEpsilon:
			walk(n.Epsilon())
		case nfa.KindSplit:
			l, r := n.Split()
			walk(l)
			walk(r)
		case nfa.KindLook:
			assertion, next := n.LookEdge()
			if look.Contains(assertion) {
				walk(next)
			}
		case nfa.KindChar:
			f.Chars = append(f.Chars, id)
		case nfa.KindMatch:
			if p, ok := n.MatchPattern(); ok {
				f.Terminals = append(f.Terminals, p)
			}
		case nfa.KindFail:
			// contributes nothing: a dead end.
		}
	}
	for _, s := range seeds {
		walk(s)
	}

	sort.Slice(f.Chars, func(i, j int) bool { return f.Chars[i] < f.Chars[j] })
	sort.Slice(f.Terminals, func(i, j int) bool { return f.Terminals[i] < f.Terminals[j] })
	return f
}

// Step consumes rune c from the Char nodes in chars, returning the set of
// nodes reached (unclosed — callers must run Closure on the result with
// the LookSet appropriate to the position just past c).
func Step(store *nfa.Store, chars []nfa.NodeID, c rune) []nfa.NodeID {
	var next []nfa.NodeID
	for _, id := range chars {
		n := store.Node(id)
		pred, target := n.Predicate()
		if pred.Matches(c) {
			next = append(next, target)
		}
	}
	return next
}
