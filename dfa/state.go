package dfa

import (
	"fmt"
	"sync"

	"github.com/la3lma/rmatch/nfa"
)

// StateID identifies a DFA state within a Store.
type StateID uint32

// InvalidState is the sentinel for "no state".
const InvalidState StateID = 0xFFFFFFFF

// State is a single node of the lazily-constructed DFA: a canonical,
// sorted set of NFA Char-node ids (the "frontier" after some closure),
// the patterns immediately accepted in this state, and a lazily-filled
// transition table keyed by the look-context used to close each
// successor (anchors make the successor of the same rune depend on
// whether it's also an end-of-line/end-of-text boundary).
//
// Grounded on the teacher's dfa/lazy/state.go State type, generalized
// from a single byte-indexed transition table to a rune-keyed, look-aware
// one, and from single-pattern isMatch to a per-pattern accept set since
// one DFA state may terminate several patterns at once.
type State struct {
	id    StateID
	chars []nfa.NodeID // sorted, deduplicated — this state's canonical key
	accepts map[nfa.PatternID]bool

	mu   sync.Mutex
	next map[runeLook]StateID
}

type runeLook struct {
	r    rune
	look nfa.LookSet
}

// ID returns the state's identifier.
func (s *State) ID() StateID { return s.id }

// IsDead reports whether this state can never match or extend further.
func (s *State) IsDead() bool { return len(s.chars) == 0 && len(s.accepts) == 0 }

// Accepts reports whether this state immediately terminates pattern p.
func (s *State) Accepts(p nfa.PatternID) bool { return s.accepts[p] }

// AcceptedPatterns returns every pattern this state terminates, in no
// particular order.
func (s *State) AcceptedPatterns() []nfa.PatternID {
	out := make([]nfa.PatternID, 0, len(s.accepts))
	for p := range s.accepts {
		out = append(out, p)
	}
	return out
}

// Chars returns the Char-node ids this state's closure reached; callers
// use this to compute Step() on the next input rune.
func (s *State) Chars() []nfa.NodeID { return s.chars }

// cachedNext returns a previously computed transition, if any.
func (s *State) cachedNext(r rune, look nfa.LookSet) (StateID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.next[runeLook{r, look}]
	return id, ok
}

// setNext records a computed transition, first-write-wins under a race
// (two goroutines computing the same successor concurrently get the same
// answer either way, since the Store interns on node-set content).
func (s *State) setNext(r rune, look nfa.LookSet, id StateID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == nil {
		s.next = make(map[runeLook]StateID, 4)
	}
	if _, exists := s.next[runeLook{r, look}]; !exists {
		s.next[runeLook{r, look}] = id
	}
}

func (s *State) String() string {
	return fmt.Sprintf("State(%d, chars=%v, accepts=%v)", s.id, s.chars, s.accepts)
}
