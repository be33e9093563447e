// Package registry holds the set of patterns an engine matches, and
// derives the per-pattern indexes (first-character sets, literal hints)
// the prefilters use to avoid spawning a Match at every position.
package registry

import (
	"fmt"
	"regexp/syntax"
	"sort"
	"sync"

	"github.com/la3lma/rmatch/literal"
	"github.com/la3lma/rmatch/nfa"
)

// Action is invoked once per committed match (spec.md §4.4's "Commit"
// step fires exactly this callback).
type Action func(start, end int, patternID nfa.PatternID)

// Pattern is one registered regex: its compiled NFA entry point plus the
// prefilter indexes derived from it.
type Pattern struct {
	ID     nfa.PatternID
	Source string
	Start  nfa.NodeID
	Action Action

	// FirstChars is the exact set of runes this pattern's match can
	// start with, when ExactFirstChars is true. When false the pattern
	// may start with any rune and the first-char prefilter must let it
	// through at every position.
	FirstChars      map[rune]bool
	ExactFirstChars bool

	// LiteralHint is the literal(s) required at the start of any match,
	// or nil if none could be extracted (spec.md §4.3's literal_hint).
	LiteralHint *literal.Seq

	// NodeLo/NodeHi bound the half-open range of NodeIDs this pattern's
	// compile allocated in the shared arena. Since Add holds the
	// registry's write lock for the whole compile, this range is
	// contiguous and never shared with another pattern, so the driver
	// can recover "which pattern owns this node" from an id alone
	// without threading ownership through the NFA node type itself.
	NodeLo, NodeHi nfa.NodeID
}

// PreconditionError reports an operation rejected because the registry
// is in the wrong state to perform it (spec.md §7).
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

// Registry owns the shared NFA arena and every pattern compiled into it.
// Patterns are append-only while a match may be in flight; Remove is
// rejected with a PreconditionError during that window, mirroring the
// teacher's registration-then-execution phase separation (meta/config.go)
// generalized to multiple independently removable patterns.
type Registry struct {
	mu            sync.RWMutex
	store         *nfa.Store
	compiler      *nfa.Compiler
	patterns      []*Pattern
	byID          map[nfa.PatternID]*Pattern
	nextID        nfa.PatternID
	inFlight      int // count of active match passes; blocks Remove while > 0
	minLiteralLen int // literals shorter than this are never used as hints
}

// New creates an empty registry backed by a fresh, shared NFA arena.
func New() *Registry {
	store := nfa.NewStore()
	return &Registry{
		store:         store,
		compiler:      nfa.NewCompiler(store),
		byID:          make(map[nfa.PatternID]*Pattern),
		minLiteralLen: 2,
	}
}

// SetMinLiteralLen sets the shortest literal the registry will extract
// as a prefilter hint (spec.md §6's literal_min_length). It affects
// patterns added after the call, not already-registered ones.
func (r *Registry) SetMinLiteralLen(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.minLiteralLen = n
}

// Store returns the shared NFA arena, for use by the DFA subset
// construction and the driver.
func (r *Registry) Store() *nfa.Store { return r.store }

// Add compiles pattern and registers it under a freshly issued PatternID,
// calling action on every committed match. Compilation failure leaves the
// registry unchanged (spec.md §4.1: atomic registration).
func (r *Registry) Add(pattern string, cfg nfa.CompilerConfig, action Action) (nfa.PatternID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	lo := nfa.NodeID(r.store.Len())
	start, err := r.compiler.Compile(id, pattern, cfg)
	if err != nil {
		return 0, err
	}
	r.nextID++
	hi := nfa.NodeID(r.store.Len())

	p := &Pattern{
		ID:     id,
		Source: pattern,
		Start:  start,
		Action: action,
		NodeLo: lo,
		NodeHi: hi,
	}
	p.FirstChars, p.ExactFirstChars = startChars(r.store, start)
	p.LiteralHint = literalHint(pattern, cfg, r.minLiteralLen)

	r.patterns = append(r.patterns, p)
	r.byID[id] = p
	return id, nil
}

// Remove unregisters a pattern. It is rejected with a PreconditionError
// while a match pass is in flight (BeginMatch has been called but
// EndMatch has not, as counted by inFlight), since live MatchSets may still
// reference the pattern's nodes.
func (r *Registry) Remove(id nfa.PatternID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight > 0 {
		return &PreconditionError{Message: fmt.Sprintf("cannot remove pattern %d: a match is in progress", id)}
	}
	p, ok := r.byID[id]
	if !ok {
		return &PreconditionError{Message: fmt.Sprintf("no such pattern: %d", id)}
	}
	delete(r.byID, id)
	for i, existing := range r.patterns {
		if existing == p {
			r.patterns = append(r.patterns[:i], r.patterns[i+1:]...)
			break
		}
	}
	return nil
}

// Patterns returns every registered pattern, ordered by ascending
// PatternID (spec.md OQ3's tie-break order).
func (r *Registry) Patterns() []*Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Pattern, len(r.patterns))
	copy(out, r.patterns)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the pattern registered under id, if any.
func (r *Registry) Get(id nfa.PatternID) (*Pattern, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

// BeginMatch marks a match pass as in flight, blocking Remove until
// EndMatch is called. Multiple concurrent match passes may overlap; the
// registry only becomes mutable again once all of them have ended.
func (r *Registry) BeginMatch() {
	r.mu.Lock()
	r.inFlight++
	r.mu.Unlock()
}

// EndMatch releases one in-flight match pass registered by BeginMatch.
func (r *Registry) EndMatch() {
	r.mu.Lock()
	if r.inFlight > 0 {
		r.inFlight--
	}
	r.mu.Unlock()
}

// Owner returns the pattern whose compile allocated node id, if any. The
// driver uses this to tell, within a DFA state's combined node-id set
// spanning multiple patterns, which pattern a surviving Char node still
// belongs to once other patterns in the same MatchSet have retired.
func (r *Registry) Owner(id nfa.NodeID) (nfa.PatternID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.patterns {
		if id >= p.NodeLo && id < p.NodeHi {
			return p.ID, true
		}
	}
	return 0, false
}

// startChars computes the exact set of runes a pattern's match can begin
// with by walking the epsilon-closure of its start node (Epsilon, Split,
// and Look edges, the latter treated as always passable since anchors can
// hold at any candidate start position) and collecting the predicates of
// every Char node reached. exact is false if any reached predicate's
// start set is unbounded (PredAny, a negated class, or an oversized
// range/class) — the first-char prefilter must then let every position
// through for this pattern, which is always sound, just less selective.
func startChars(store *nfa.Store, start nfa.NodeID) (set map[rune]bool, exact bool) {
	set = make(map[rune]bool)
	exact = true
	seen := make(map[nfa.NodeID]bool)

	var walk func(id nfa.NodeID)
	walk = func(id nfa.NodeID) {
		if id == nfa.InvalidNode || seen[id] {
			return
		}
		seen[id] = true
		n := store.Node(id)
		switch n.Kind() {
		case nfa.KindEpsilon:
			walk(n.Epsilon())
		case nfa.KindSplit:
			l, r := n.Split()
			walk(l)
			walk(r)
		case nfa.KindLook:
			_, next := n.LookEdge()
			walk(next)
		case nfa.KindChar:
			pred, _ := n.Predicate()
			ok := pred.StartRunes(func(r rune) { set[r] = true })
			if !ok {
				exact = false
			}
		case nfa.KindMatch:
			// An empty-string match: any rune may legitimately start
			// "no match consumed yet", so this pattern can't be pruned
			// by first character.
			exact = false
		}
	}
	walk(start)
	return set, exact
}

// literalHint re-parses pattern (compilation already happened against the
// shared NFA store; re-parsing here is cheap and keeps literal extraction
// independent of Thompson construction, exactly as the teacher's meta
// layer runs literal.Extractor over the same syntax.Regexp it also feeds
// to NFA compilation) and extracts its required prefix literal(s), if
// any, for use as an Aho-Corasick prefilter hint (spec.md §4.3).
func literalHint(pattern string, cfg nfa.CompilerConfig, minLen int) *literal.Seq {
	flags := syntax.Perl
	if cfg.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil
	}
	re = re.Simplify()
	seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
	if seq.IsEmpty() {
		return nil
	}
	seq.Minimize()
	seq.DropShorterThan(minLen)
	if seq.IsEmpty() {
		return nil
	}
	return seq
}
