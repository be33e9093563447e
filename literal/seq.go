// Package literal extracts required literal substrings from a compiled
// regex AST, for use as prefilter hints ahead of the shared automaton.
package literal

import (
	"bytes"
	"sort"
)

// Literal is a concrete byte sequence that may appear in a match. Complete
// reports whether matching exactly this sequence is itself a full match of
// the pattern (true), or only a necessary substring of one (false).
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral builds a Literal.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the literal's length in bytes.
func (l Literal) Len() int { return len(l.Bytes) }

// Seq is a set of alternative literals, one of which must appear in any
// match (e.g. from an alternation like /foo|bar/).
type Seq struct {
	literals []Literal
}

// NewSeq builds a Seq from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i. Panics if out of bounds.
func (s *Seq) Get(i int) Literal { return s.literals[i] }

// IsEmpty reports whether the sequence carries no literals.
func (s *Seq) IsEmpty() bool { return s == nil || len(s.literals) == 0 }

// Minimize drops literals that have a shorter literal of the set as a
// prefix, keeping the shorter one ("foo" is kept over "foobar"), since any
// input starting with the longer literal also starts with the shorter one.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	sort.Slice(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})
	kept := make([]Literal, 0, len(s.literals))
	for _, cur := range s.literals {
		redundant := false
		for _, k := range kept {
			if isPrefix(k.Bytes, cur.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, cur)
		}
	}
	s.literals = kept
}

// DropShorterThan clears the sequence entirely if any alternative is
// shorter than minLen. A Seq's literals are alternatives — a match need
// only contain one of them — so discarding just the short ones would
// leave a filter that silently misses real matches taking the dropped
// branch; the only sound response to an under-length alternative is to
// give up on the hint altogether.
func (s *Seq) DropShorterThan(minLen int) {
	if s.IsEmpty() {
		return
	}
	for _, l := range s.literals {
		if l.Len() < minLen {
			s.literals = nil
			return
		}
	}
}

func isPrefix(prefix, s []byte) bool {
	if len(prefix) > len(s) {
		return false
	}
	return bytes.Equal(prefix, s[:len(prefix)])
}
