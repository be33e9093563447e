// Package pool reuses per-position scratch state across calls to the
// match driver's hot loop, avoiding an allocation at every input
// position. Grounded on the teacher's buffer-pool convention (sync.Pool
// wrapping a concrete struct, with a Reset-then-return Get and a
// truncate-then-stash Put) applied here to the sparse sets and id
// slices the driver needs per position instead of the teacher's byte
// buffers.
package pool

import (
	"sync"

	"github.com/la3lma/rmatch/internal/conv"
	"github.com/la3lma/rmatch/internal/sparse"
	"github.com/la3lma/rmatch/nfa"
)

// Scratch holds the working state the driver needs while advancing one
// input position: Visited, a sparse set the driver uses to deduplicate
// spawn-candidate pattern ids, and reusable Candidates and NodeIDs
// slices (the driver does not use NodeIDs; it is only reset on Put).
type Scratch struct {
	Visited    *sparse.SparseSet
	Candidates []nfa.PatternID
	NodeIDs    []nfa.NodeID
}

func newScratch(nfaLen int) *Scratch {
	return &Scratch{
		Visited:    sparse.NewSparseSet(conv.IntToUint32(nfaLen) + 1),
		Candidates: make([]nfa.PatternID, 0, 16),
		NodeIDs:    make([]nfa.NodeID, 0, 16),
	}
}

// Reset truncates the reusable slices and clears the visited set so the
// Scratch can be reused for the next position without reallocating.
func (s *Scratch) Reset() {
	s.Visited.Clear()
	s.Candidates = s.Candidates[:0]
	s.NodeIDs = s.NodeIDs[:0]
}

// Pool hands out Scratch values sized for a given shared NFA arena. A
// Pool is created once per Driver and reused across every Match call,
// since the arena only grows (patterns are append-only) and a Scratch
// whose Visited set is too small is simply discarded rather than reused.
type Pool struct {
	nfaLen int
	pool   sync.Pool
}

// New creates a Pool sized for the NFA arena's current length. Callers
// must call Grow if the arena grows after patterns are registered.
func New(nfaLen int) *Pool {
	p := &Pool{nfaLen: nfaLen}
	p.pool.New = func() any { return newScratch(p.nfaLen) }
	return p
}

// Grow updates the size new Scratch values are allocated at. Existing
// pooled values below the new size are dropped by Get, not mutated in
// place, since a SparseSet's capacity is fixed at construction.
func (p *Pool) Grow(nfaLen int) {
	if nfaLen > p.nfaLen {
		p.nfaLen = nfaLen
	}
}

// Get returns a Scratch sized for at least the pool's current nfaLen,
// reset and ready for use.
func (p *Pool) Get() *Scratch {
	s, _ := p.pool.Get().(*Scratch)
	if s == nil || s.Visited.Cap() < p.nfaLen {
		s = newScratch(p.nfaLen)
	}
	s.Reset()
	return s
}

// Put returns a Scratch to the pool for reuse.
func (p *Pool) Put(s *Scratch) {
	p.pool.Put(s)
}
