package dfa

import (
	"strings"
	"sync"

	"github.com/la3lma/rmatch/internal/conv"
	"github.com/la3lma/rmatch/internal/sparse"
	"github.com/la3lma/rmatch/nfa"
)

// Store is the content-addressed DFA state cache shared by every live
// Match in a pass: two spawns whose closures land on the same sorted
// Char-node set and the same accepted-pattern set are the same object,
// so work already done for one is reused by the other (spec.md §4.2's
// "lazy, content-addressed DFA node store").
//
// Grounded on the teacher's dfa/lazy/cache.go Cache, adapted from a
// single growth-then-clear cache with an eviction/fallback policy to an
// intern table with no eviction: this engine has no NFA-fallback
// execution mode to degrade into, so states are kept for the lifetime of
// the Store. A positive maxStates caps how many states may be interned;
// past it, interning a new state fails with ErrCacheFull.
type Store struct {
	mu      sync.RWMutex
	byKey   map[string]*State
	states  []*State
	nfaStore *nfa.Store
	scratch  *sparse.SparseSet

	maxStates int
}

// ErrCacheFull is returned by Successor when the store has reached its
// configured state budget.
type ErrCacheFull struct{ MaxStates int }

func (e *ErrCacheFull) Error() string {
	return "dfa: state cache exceeded configured budget"
}

// NewStore creates an empty DFA store over the given shared NFA arena.
// maxStates bounds total interned states; 0 means unbounded.
func NewStore(nfaStore *nfa.Store, maxStates int) *Store {
	return &Store{
		byKey:     make(map[string]*State),
		nfaStore:  nfaStore,
		scratch:   sparse.NewSparseSet(conv.IntToUint32(nfaStore.Len()) + 1),
		maxStates: maxStates,
	}
}

// ensureScratchCapacity grows scratch to cover every node id currently
// allocated in the shared NFA arena. Patterns may be registered after a
// Store already exists (the registry is append-only), so the arena can
// grow between calls; scratch is rebuilt, not resized in place, since
// SparseSet has no in-place grow operation.
func (s *Store) ensureScratchCapacity() {
	if s.scratch.Cap() >= s.nfaStore.Len() {
		return
	}
	s.scratch = sparse.NewSparseSet(conv.IntToUint32(s.nfaStore.Len()) + 1)
}

// Start returns (interning if necessary) the DFA state reached by
// closing seeds under look.
func (s *Store) Start(seeds []nfa.NodeID, look nfa.LookSet) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureScratchCapacity()
	frontier := Closure(s.nfaStore, seeds, look, s.scratch)
	return s.intern(frontier)
}

// Successor returns the state reached from st on rune c, closing the
// result with closeLook (the LookSet appropriate to the position just
// past c). Computation is memoized on st; concurrent callers computing
// the same successor race harmlessly since both arrive at the same
// interned State.
func (s *Store) Successor(st *State, c rune, closeLook nfa.LookSet) (*State, error) {
	if cached, ok := st.cachedNext(c, closeLook); ok {
		return s.byID(cached), nil
	}

	stepped := Step(s.nfaStore, st.chars, c)

	s.mu.Lock()
	s.ensureScratchCapacity()
	frontier := Closure(s.nfaStore, stepped, closeLook, s.scratch)
	next, err := s.intern(frontier)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	st.setNext(c, closeLook, next.id)
	return next, nil
}

func (s *Store) byID(id StateID) *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[id]
}

// intern returns the canonical State for frontier, creating one if this
// exact (chars, accepted-patterns) combination hasn't been seen before.
// Must be called with s.mu held.
func (s *Store) intern(frontier Frontier) (*State, error) {
	key := canonicalKey(frontier)
	if existing, ok := s.byKey[key]; ok {
		return existing, nil
	}
	if s.maxStates > 0 && len(s.states) >= s.maxStates {
		return nil, &ErrCacheFull{MaxStates: s.maxStates}
	}

	accepts := make(map[nfa.PatternID]bool, len(frontier.Terminals))
	for _, p := range frontier.Terminals {
		accepts[p] = true
	}
	st := &State{
		id:      StateID(len(s.states)),
		chars:   frontier.Chars,
		accepts: accepts,
	}
	s.states = append(s.states, st)
	s.byKey[key] = st
	return st, nil
}

// canonicalKey builds a string uniquely identifying a frontier's content,
// relying on Closure having already sorted both slices so the same
// node/pattern set always produces the same key regardless of visit
// order during epsilon-closure.
func canonicalKey(f Frontier) string {
	var b strings.Builder
	for _, id := range f.Chars {
		b.WriteByte(byte(id))
		b.WriteByte(byte(id >> 8))
		b.WriteByte(byte(id >> 16))
		b.WriteByte(byte(id >> 24))
	}
	b.WriteByte('|')
	for _, p := range f.Terminals {
		b.WriteByte(byte(p))
		b.WriteByte(byte(p >> 8))
		b.WriteByte(byte(p >> 16))
		b.WriteByte(byte(p >> 24))
	}
	return b.String()
}
