// Package prefilter narrows, at each input position, which registered
// patterns are worth spawning a Match for (spec.md §4.3): the first-
// character index rules out patterns whose start-char set can't include
// the rune at this position, and the literal prefilter rules out
// patterns whose required literal prefix doesn't start here.
//
// Grounded on the teacher's prefilter package (which selects a single
// best literal-search strategy for one pattern); generalized here to
// report a per-position candidate *set* across every registered pattern
// sharing the automaton, since a false negative here would silently drop
// a real match while a false positive only costs a wasted spawn.
package prefilter

import "github.com/la3lma/rmatch/nfa"

// FirstCharFilter answers, for a given rune, which patterns may start a
// match there. Patterns with an inexact first-char set (spec.md's
// exact=false from Predicate.StartRunes) are always candidates, since
// ruling them out could miss a real match.
type FirstCharFilter struct {
	byChar  map[rune][]nfa.PatternID
	always  []nfa.PatternID
}

// PatternSource describes a registered pattern's first-char index;
// callers (the registry) already compute this during Add.
type PatternSource struct {
	ID              nfa.PatternID
	FirstChars      map[rune]bool
	ExactFirstChars bool
}

// BuildFirstCharFilter constructs a FirstCharFilter from every
// registered pattern's first-char index.
func BuildFirstCharFilter(patterns []PatternSource) *FirstCharFilter {
	f := &FirstCharFilter{byChar: make(map[rune][]nfa.PatternID)}
	for _, p := range patterns {
		if !p.ExactFirstChars {
			f.always = append(f.always, p.ID)
			continue
		}
		for r := range p.FirstChars {
			f.byChar[r] = append(f.byChar[r], p.ID)
		}
	}
	return f
}

// Candidates appends to dst every pattern that may start a match at a
// position whose rune is r, and returns the extended slice. dst is
// reused across calls by the driver to avoid per-position allocation.
func (f *FirstCharFilter) Candidates(r rune, dst []nfa.PatternID) []nfa.PatternID {
	dst = append(dst, f.always...)
	dst = append(dst, f.byChar[r]...)
	return dst
}
