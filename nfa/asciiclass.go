package nfa

// asciiClassTable is the fast-path component spec.md §4.6 calls for: a
// 128-entry byte table holding bit flags for the \w, \d, \s character
// classes, giving constant-time classification for ASCII code points so
// Predicate.Matches doesn't need to walk Ranges for the common case.
// Code points >= 128 always fall back to rangesContain (PredClass's
// general classifier), per spec.md's explicit non-goal of full Unicode
// property classes.
const (
	classLetter byte = 1 << iota
	classDigit
	classSpace
	classWord
)

var asciiClassTable = buildASCIIClassTable()

func buildASCIIClassTable() [128]byte {
	var t [128]byte
	for c := byte(0); c < 128; c++ {
		var flags byte
		switch {
		case c >= '0' && c <= '9':
			flags |= classDigit | classWord
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			flags |= classLetter | classWord
		case c == '_':
			flags |= classWord
		}
		switch c {
		case '\t', '\n', '\f', '\r', ' ':
			flags |= classSpace
		}
		t[c] = flags
	}
	return t
}

// Canonical ASCII range sets for Go's Perl character classes (\d, \s, \w),
// as produced by regexp/syntax when one of these escapes appears on its
// own (not merged into a surrounding custom class). Stable across Go
// versions; used only to recognize a compiled PredClass as one of these
// named classes so Matches can dispatch through asciiClassTable instead
// of rangesContain.
var (
	digitRanges = []RuneRange{{'0', '9'}}
	spaceRanges = []RuneRange{{'\t', '\n'}, {'\f', '\r'}, {' ', ' '}}
	wordRanges  = []RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
)

// classifyASCIIFlag returns the asciiClassTable bit this predicate's
// Ranges correspond to exactly, or 0 if Ranges isn't one of the
// recognized named classes (e.g. a literal custom class like [aeiou]).
func classifyASCIIFlag(ranges []RuneRange) byte {
	switch {
	case rangesEqual(ranges, digitRanges):
		return classDigit
	case rangesEqual(ranges, spaceRanges):
		return classSpace
	case rangesEqual(ranges, wordRanges):
		return classWord
	default:
		return 0
	}
}

func rangesEqual(a, b []RuneRange) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
