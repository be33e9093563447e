// Package driver implements the multi-pattern match driver: the
// per-position loop that spawns, advances, and commits matches for
// every registered pattern sharing one automaton pass over an input
// buffer.
//
// Grounded on the teacher's meta.Engine orchestration loop (meta/engine.go),
// generalized from "run one pattern's chosen strategy to completion" to
// "advance every live, independently-anchored MatchSet one rune at a
// time, arbitrating per pattern." The core 5-step loop (Spawn / Advance
// / Terminal accounting / Commit / Sweep) has no direct teacher
// counterpart — it is the novel piece this engine adds — but its
// plumbing (cancellation polling, DFA successor lookups, literal
// prefilter consultation) reuses the registry, dfa, and prefilter
// packages built in the teacher's idiom.
package driver

import (
	"sort"

	"github.com/la3lma/rmatch/charbuf"
	"github.com/la3lma/rmatch/dfa"
	"github.com/la3lma/rmatch/internal/pool"
	"github.com/la3lma/rmatch/nfa"
	"github.com/la3lma/rmatch/prefilter"
	"github.com/la3lma/rmatch/registry"
)

// Cancelled is returned by Match when the caller's cancellation channel
// fires before the scan reaches the end of the buffer.
type Cancelled struct{}

func (Cancelled) Error() string { return "rmatch: match cancelled" }

// PrefilterMode selects which prefilters run ahead of the driver.
type PrefilterMode int

const (
	// PrefilterNone disables both prefilters: every pattern is a spawn
	// candidate at every position (used to validate P5, prefilter
	// soundness, against the filtered modes).
	PrefilterNone PrefilterMode = iota
	// PrefilterFirstChar runs only the first-character index.
	PrefilterFirstChar
	// PrefilterBoth runs the first-character index and, for patterns
	// with a literal hint, the Aho-Corasick literal prefilter.
	PrefilterBoth
)

// Driver advances every live MatchSet across one input buffer per
// Match call. A Driver is built once per engine configuration and
// reused across many Match calls; it holds no per-call state itself.
type Driver struct {
	reg       *registry.Registry
	dfaStore  *dfa.Store
	firstChar *prefilter.FirstCharFilter
	ac        *prefilter.ACPrefilter
	pool      *pool.Pool
	mode      PrefilterMode
}

// New builds a Driver over reg's currently registered patterns. Callers
// must rebuild the Driver (or call Rebuild) after adding patterns, since
// the first-character and literal indexes are snapshotted at build time.
func New(reg *registry.Registry, dfaStore *dfa.Store, mode PrefilterMode) *Driver {
	d := &Driver{reg: reg, dfaStore: dfaStore, pool: pool.New(reg.Store().Len()), mode: mode}
	d.Rebuild()
	return d
}

// Rebuild recomputes the prefilter indexes from the registry's current
// pattern set. Call this after Add-ing new patterns.
func (d *Driver) Rebuild() {
	patterns := d.reg.Patterns()
	d.pool.Grow(d.reg.Store().Len())

	sources := make([]prefilter.PatternSource, 0, len(patterns))
	for _, p := range patterns {
		sources = append(sources, prefilter.PatternSource{
			ID:              p.ID,
			FirstChars:      p.FirstChars,
			ExactFirstChars: p.ExactFirstChars && d.mode != PrefilterNone,
		})
	}
	d.firstChar = prefilter.BuildFirstCharFilter(sources)

	if d.mode != PrefilterBoth {
		d.ac = nil
		return
	}
	acSources := make([]prefilter.ACLiteralSource, 0, len(patterns))
	for _, p := range patterns {
		if p.LiteralHint == nil {
			continue
		}
		acSources = append(acSources, prefilter.ACLiteralSource{
			ID:   p.ID,
			Hint: p.LiteralHint,
			// literalHint never extracts from a case-insensitive pattern
			// (literal.Extractor skips FoldCase subexpressions), so the
			// hints reaching this filter are always case-sensitive as-is.
			CaseInsensitive: false,
		})
	}
	d.ac = prefilter.BuildACPrefilter(acSources)
}

// matchSet is one anchored attempt: a single DFA state combining the
// NFA frontiers of every pattern spawned at start, evolving together.
// Patterns drop out of patterns as their owned Char nodes disappear
// from the combined frontier; the matchSet is swept once patterns is
// empty.
type matchSet struct {
	start    int
	state    *dfa.State
	patterns map[nfa.PatternID]bool
	bestEnd  map[nfa.PatternID]int
}

// patternTracker arbitrates overlapping starts of the same pattern
// (spec.md §4.4: "preferring the earlier start"). Since every live
// matchSet for a pattern advances in lockstep with the driver's single
// cursor, a later start can resolve (stop extending) before an earlier,
// still-live start does; resolutions are held in deferred until no
// smaller start remains live, so the earliest start always wins the
// arbitration regardless of which one happens to finish first.
type patternTracker struct {
	liveStarts []int
	deferred   []deferredResolution
	claimed    int
}

type deferredResolution struct {
	start  int
	end    int
	hasEnd bool
}

// Match drives the engine over buf, invoking each pattern's action at
// most once per maximal, non-overlapping match span (spec.md §4.4).
// cancel, if non-nil, is polled between input positions; on cancel,
// Match returns Cancelled. Matches that were already final have been
// committed by then; attempts that could still extend are dropped.
func (d *Driver) Match(buf *charbuf.Buffer, cancel <-chan struct{}) error {
	d.reg.BeginMatch()
	defer d.reg.EndMatch()

	patterns := d.reg.Patterns()
	byID := make(map[nfa.PatternID]*registry.Pattern, len(patterns))
	for _, p := range patterns {
		byID[p.ID] = p
	}

	var acHits map[int][]nfa.PatternID
	if d.ac != nil {
		acHits = d.ac.Scan(buf)
	}

	trackers := make(map[nfa.PatternID]*patternTracker, len(patterns))
	for _, p := range patterns {
		trackers[p.ID] = &patternTracker{}
	}

	scratch := d.pool.Get()
	defer d.pool.Put(scratch)

	var live []*matchSet
	n := buf.Len()

	for i := 0; i < n; i++ {
		if cancelled(cancel) {
			return Cancelled{}
		}

		c := buf.At(i)
		startLook := lookAt(buf, i)

		candidates := d.candidatesAt(c, i, acHits, scratch)
		if len(candidates) > 0 {
			seeds := make([]nfa.NodeID, 0, len(candidates))
			for _, p := range candidates {
				seeds = append(seeds, byID[p].Start)
			}
			st, err := d.dfaStore.Start(seeds, startLook)
			if err != nil {
				return err
			}
			ms := &matchSet{
				start:    i,
				state:    st,
				patterns: make(map[nfa.PatternID]bool, len(candidates)),
				bestEnd:  make(map[nfa.PatternID]int),
			}
			for _, p := range candidates {
				ms.patterns[p] = true
				trackers[p].liveStarts = append(trackers[p].liveStarts, i)
			}
			live = append(live, ms)
		}

		closeLook := lookAt(buf, i+1)
		kept := live[:0]
		for _, ms := range live {
			next, err := d.dfaStore.Successor(ms.state, c, closeLook)
			if err != nil {
				return err
			}
			ms.state = next

			ownedIDs := ownershipSet(d.reg, next)
			for _, p := range sortedPatternIDs(ms.patterns) {
				if next.Accepts(p) {
					ms.bestEnd[p] = i
				}
				if ownedIDs[p] {
					continue
				}
				end, hasEnd := ms.bestEnd[p]
				delete(ms.patterns, p)
				d.resolve(trackers[p], byID[p].Action, p, ms.start, end, hasEnd)
			}

			if len(ms.patterns) > 0 {
				kept = append(kept, ms)
			}
		}
		live = kept
	}

	d.flush(live, trackers, byID)
	return nil
}

// candidatesAt computes the spawn candidate set for position i: the
// first-character filter's candidates at rune c, intersected with the
// Aho-Corasick prefilter's candidates for every pattern that carries a
// literal hint (spec.md §4.4 step 1). Deduplication uses the pooled
// scratch's sparse set rather than a linear scan.
func (d *Driver) candidatesAt(
	c rune,
	i int,
	acHits map[int][]nfa.PatternID,
	scratch *pool.Scratch,
) []nfa.PatternID {
	scratch.Candidates = scratch.Candidates[:0]
	raw := d.firstChar.Candidates(c, scratch.Candidates)

	var acSet map[nfa.PatternID]bool
	if d.ac != nil {
		if hits := acHits[i]; len(hits) > 0 {
			acSet = make(map[nfa.PatternID]bool, len(hits))
			for _, p := range hits {
				acSet[p] = true
			}
		}
	}

	scratch.Visited.Clear()
	result := make([]nfa.PatternID, 0, len(raw))
	for _, p := range raw {
		if scratch.Visited.Contains(uint32(p)) {
			continue
		}
		if d.ac != nil && d.ac.HasHint(p) {
			if acSet == nil || !acSet[p] {
				continue
			}
		}
		scratch.Visited.Insert(uint32(p))
		result = append(result, p)
	}
	return result
}

// resolve handles one (pattern, start) attempt no longer owning any
// Char node in its matchSet's combined state. It defers the commit
// decision while a smaller, still-live start for the same pattern
// remains, guaranteeing the earliest start is always arbitrated first
// regardless of resolution order.
func (d *Driver) resolve(t *patternTracker, action registry.Action, p nfa.PatternID, start, end int, hasEnd bool) {
	hasSmaller := false
	for idx, s := range t.liveStarts {
		if s == start {
			t.liveStarts = append(t.liveStarts[:idx], t.liveStarts[idx+1:]...)
			break
		}
	}
	for _, s := range t.liveStarts {
		if s < start {
			hasSmaller = true
			break
		}
	}

	if hasSmaller {
		t.deferred = append(t.deferred, deferredResolution{start: start, end: end, hasEnd: hasEnd})
		return
	}

	commitOrSuppress(t, action, p, start, end, hasEnd)
	drainDeferred(t, action, p)
}

func commitOrSuppress(t *patternTracker, action registry.Action, p nfa.PatternID, start, end int, hasEnd bool) {
	if !hasEnd || start < t.claimed {
		return
	}
	if action != nil {
		action(start, end, p)
	}
	t.claimed = end + 1
}

func drainDeferred(t *patternTracker, action registry.Action, p nfa.PatternID) {
	for len(t.deferred) > 0 {
		sort.Slice(t.deferred, func(i, j int) bool { return t.deferred[i].start < t.deferred[j].start })
		next := t.deferred[0]
		if len(t.liveStarts) > 0 && t.liveStarts[0] < next.start {
			return
		}
		t.deferred = t.deferred[1:]
		commitOrSuppress(t, action, p, next.start, next.end, next.hasEnd)
	}
}

// flush resolves every pattern still tracked by any live matchSet at
// end of input: with no further input, nothing can extend further, so
// every still-live attempt is final (spec.md §4.4's commit condition
// "no character can extend from the current DFA state").
func (d *Driver) flush(live []*matchSet, trackers map[nfa.PatternID]*patternTracker, byID map[nfa.PatternID]*registry.Pattern) {
	for _, ms := range live {
		for _, p := range sortedPatternIDs(ms.patterns) {
			end, hasEnd := ms.bestEnd[p]
			d.resolve(trackers[p], byID[p].Action, p, ms.start, end, hasEnd)
		}
	}
}

func ownershipSet(reg *registry.Registry, st *dfa.State) map[nfa.PatternID]bool {
	out := make(map[nfa.PatternID]bool)
	for _, id := range st.Chars() {
		if p, ok := reg.Owner(id); ok {
			out[p] = true
		}
	}
	return out
}

func sortedPatternIDs(set map[nfa.PatternID]bool) []nfa.PatternID {
	out := make([]nfa.PatternID, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func cancelled(cancel <-chan struct{}) bool {
	if cancel == nil {
		return false
	}
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

func lookAt(buf *charbuf.Buffer, pos int) nfa.LookSet {
	n := buf.Len()
	before := func(i int) (rune, bool) {
		if i < 1 || i > n {
			return 0, false
		}
		return buf.At(i - 1), true
	}
	at := func(i int) (rune, bool) {
		if i < 0 || i >= n {
			return 0, false
		}
		return buf.At(i), true
	}
	return nfa.LookSetAt(pos, n, before, at)
}
