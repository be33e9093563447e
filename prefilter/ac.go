package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/la3lma/rmatch/charbuf"
	"github.com/la3lma/rmatch/literal"
	"github.com/la3lma/rmatch/nfa"
)

// literalBinding ties one literal byte string back to the pattern whose
// literal_hint produced it.
type literalBinding struct {
	pattern nfa.PatternID
}

// ACLiteralSource is a registered pattern's literal_hint, as computed by
// the registry.
type ACLiteralSource struct {
	ID     nfa.PatternID
	Hint   *literal.Seq
	// CaseInsensitive mirrors the pattern's compile flag: when set, both
	// case forms of the literal are inserted into the automaton (OQ2),
	// since the automaton itself does case-sensitive byte comparison.
	CaseInsensitive bool
}

// ACPrefilter wraps github.com/coregx/ahocorasick to locate, across every
// registered pattern's required literal prefix in one linear scan, which
// positions (reported as rune indices) are viable match starts (spec.md §4.3's literal
// prefilter). It supplements, rather than replaces, the first-character
// filter: a pattern with no literal_hint is never excluded by this
// filter, only by FirstCharFilter.
type ACPrefilter struct {
	automaton *ahocorasick.Automaton
	bindings  map[string][]literalBinding
	// hasHint records which patterns contributed at least one literal,
	// so the driver knows this filter has an opinion about them at all.
	hasHint map[nfa.PatternID]bool
}

// BuildACPrefilter constructs an ACPrefilter from every pattern carrying
// a literal_hint. Patterns without one are simply absent from the
// automaton and always pass through this filter untouched.
func BuildACPrefilter(sources []ACLiteralSource) *ACPrefilter {
	builder := ahocorasick.NewBuilder()
	bindings := make(map[string][]literalBinding)
	hasHint := make(map[nfa.PatternID]bool)

	for _, src := range sources {
		if src.Hint.IsEmpty() {
			continue
		}
		hasHint[src.ID] = true
		for i := 0; i < src.Hint.Len(); i++ {
			lit := src.Hint.Get(i).Bytes
			if len(lit) == 0 {
				continue
			}
			addLiteral(builder, bindings, lit, src.ID)
			if src.CaseInsensitive {
				addCaseVariant(builder, bindings, lit, src.ID)
			}
		}
	}

	automaton, err := builder.Build()
	if err != nil {
		// An automaton that fails to build from well-formed literal
		// byte strings indicates a library-level invariant violation;
		// degrade to "no literal prefilter" rather than panic, since the
		// first-character filter and full automaton remain correct on
		// their own, only slower.
		return &ACPrefilter{bindings: bindings, hasHint: hasHint}
	}
	return &ACPrefilter{automaton: automaton, bindings: bindings, hasHint: hasHint}
}

func addLiteral(builder *ahocorasick.Builder, bindings map[string][]literalBinding, lit []byte, id nfa.PatternID) {
	key := string(lit)
	bindings[key] = append(bindings[key], literalBinding{pattern: id})
	builder.AddPattern(lit)
}

// addCaseVariant inserts one variant of lit with the case of every ASCII
// letter flipped ("abc" -> "ABC"), keeping the byte length unchanged so
// the position arithmetic the driver relies on still holds (OQ2).
// Non-ASCII bytes are copied as they are and mixed-case variants are not
// added, so input in any other case form of the literal produces no hit.
func addCaseVariant(builder *ahocorasick.Builder, bindings map[string][]literalBinding, lit []byte, id nfa.PatternID) {
	variant := make([]byte, len(lit))
	changed := false
	for i, b := range lit {
		switch {
		case b >= 'a' && b <= 'z':
			variant[i] = b - 'a' + 'A'
			changed = true
		case b >= 'A' && b <= 'Z':
			variant[i] = b - 'A' + 'a'
			changed = true
		default:
			variant[i] = b
		}
	}
	if !changed {
		return
	}
	key := string(variant)
	bindings[key] = append(bindings[key], literalBinding{pattern: id})
	builder.AddPattern(variant)
}

// HasHint reports whether this filter has an opinion about pattern id at
// all (i.e. the registry extracted a non-empty literal_hint for it).
func (f *ACPrefilter) HasHint(id nfa.PatternID) bool { return f.hasHint[id] }

// Scan runs the automaton once over buf and returns every literal
// occurrence, keyed by rune start position. Unlike a streaming prefilter,
// this runs ahead of the driver's per-position loop since the input
// buffer is materialized in full (spec.md §2: "need not be streaming").
func (f *ACPrefilter) Scan(buf *charbuf.Buffer) map[int][]nfa.PatternID {
	out := make(map[int][]nfa.PatternID)
	if f.automaton == nil {
		return out
	}
	haystack := buf.Bytes()
	at := 0
	for at <= len(haystack) {
		m := f.automaton.Find(haystack, at)
		if m == nil {
			break
		}
		// Find reports one literal per start; every other bound literal
		// beginning at the same start is an occurrence too.
		runeIdx := buf.RuneIndex(m.Start)
		for lit, bs := range f.bindings {
			if !bytes.HasPrefix(haystack[m.Start:], []byte(lit)) {
				continue
			}
			for _, b := range bs {
				out[runeIdx] = appendUnique(out[runeIdx], b.pattern)
			}
		}
		at = m.Start + 1
	}
	return out
}

func appendUnique(s []nfa.PatternID, id nfa.PatternID) []nfa.PatternID {
	for _, existing := range s {
		if existing == id {
			return s
		}
	}
	return append(s, id)
}
