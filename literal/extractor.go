package literal

import "regexp/syntax"

// ExtractorConfig bounds how much work and memory literal extraction may
// spend on a single pattern.
type ExtractorConfig struct {
	// MaxLiterals limits how many alternative literals a single pattern
	// may contribute (bounds alternations like (a|b|c|...)).
	MaxLiterals int
	// MaxLiteralLen truncates any extracted literal beyond this length.
	MaxLiteralLen int
	// MaxClassSize bounds how large a character class is expanded
	// in-place (e.g. [abc] but not [a-z]).
	MaxClassSize int
}

// DefaultConfig returns the extractor's default limits.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor derives required prefix literals from a regex AST, for use as
// Aho-Corasick prefilter hints ahead of the shared automaton (spec.md
// §4.3's literal_hint). Grounded on the teacher's literal/extractor.go,
// trimmed to the prefix-only extraction this engine's driver actually
// consults — suffix and inner-literal extraction supported a
// reverse-suffix execution strategy this engine has no counterpart for.
type Extractor struct {
	config ExtractorConfig
}

// New creates an Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns the literals that must appear at the start of
// any match of re, or an empty Seq if no such requirement exists (e.g.
// the pattern starts with ".*" or a large character class).
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	return e.extractPrefixes(re, 0)
}

func (e *Extractor) extractPrefixes(re *syntax.Regexp, depth int) *Seq {
	if depth > 100 || re.Flags&syntax.FoldCase != 0 {
		// Case-insensitive sub-patterns are skipped: the prefilter byte
		// comparison is case-sensitive, so a folded literal would miss
		// matches in the other case.
		return NewSeq()
	}

	switch re.Op {
	case syntax.OpLiteral:
		b := runeSliceToBytes(re.Rune)
		if len(b) > e.config.MaxLiteralLen {
			b = b[:e.config.MaxLiteralLen]
		}
		return NewSeq(NewLiteral(b, true))

	case syntax.OpConcat:
		return e.extractPrefixesConcat(re, depth)

	case syntax.OpAlternate:
		var lits []Literal
		for _, sub := range re.Sub {
			seq := e.extractPrefixes(sub, depth+1)
			if seq.IsEmpty() {
				return NewSeq()
			}
			for i := 0; i < seq.Len(); i++ {
				lits = append(lits, seq.Get(i))
				if len(lits) >= e.config.MaxLiterals {
					return NewSeq(lits...)
				}
			}
		}
		return NewSeq(lits...)

	case syntax.OpCharClass:
		return e.expandCharClass(re)

	case syntax.OpCapture:
		if len(re.Sub) == 0 {
			return NewSeq()
		}
		return e.extractPrefixes(re.Sub[0], depth+1)

	default:
		// OpStar/OpQuest/OpPlus/OpRepeat/OpAnyChar/anchors/etc: no
		// reliable prefix requirement.
		return NewSeq()
	}
}

// extractPrefixesConcat walks a concatenation left to right, extending an
// accumulated literal set with each literal or small character class, and
// stopping as soon as a non-literal sub-expression is hit.
func (e *Extractor) extractPrefixesConcat(re *syntax.Regexp, depth int) *Seq {
	startIdx := 0
	for startIdx < len(re.Sub) {
		op := re.Sub[startIdx].Op
		if op == syntax.OpBeginLine || op == syntax.OpBeginText {
			startIdx++
			continue
		}
		break
	}
	if startIdx >= len(re.Sub) {
		return NewSeq()
	}

	acc := NewSeq(NewLiteral(nil, true))
	for i := startIdx; i < len(re.Sub); i++ {
		sub := re.Sub[i]
		contribution := e.concatSubContribution(sub, depth)
		if contribution == nil {
			break
		}
		acc = crossProduct(acc, contribution, e.config.MaxLiterals, e.config.MaxLiteralLen)
	}

	if acc.Len() == 1 && len(acc.Get(0).Bytes) == 0 {
		return NewSeq()
	}
	return acc
}

func (e *Extractor) concatSubContribution(sub *syntax.Regexp, depth int) *Seq {
	if sub.Flags&syntax.FoldCase != 0 {
		return nil
	}
	switch sub.Op {
	case syntax.OpLiteral:
		return NewSeq(NewLiteral(runeSliceToBytes(sub.Rune), true))
	case syntax.OpCharClass:
		expanded := e.expandCharClass(sub)
		if expanded.IsEmpty() {
			return nil
		}
		return expanded
	case syntax.OpCapture:
		if len(sub.Sub) == 0 {
			return nil
		}
		return e.concatSubContribution(sub.Sub[0], depth)
	default:
		return nil
	}
}

// crossProduct extends each literal in acc with each literal in next,
// truncating to maxLen and capping the result at maxCount.
func crossProduct(acc, next *Seq, maxCount, maxLen int) *Seq {
	out := make([]Literal, 0, acc.Len()*next.Len())
	for i := 0; i < acc.Len(); i++ {
		a := acc.Get(i)
		for j := 0; j < next.Len(); j++ {
			b := next.Get(j)
			buf := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			buf = append(buf, a.Bytes...)
			buf = append(buf, b.Bytes...)
			complete := a.Complete && b.Complete
			if len(buf) > maxLen {
				buf = buf[:maxLen]
				complete = false
			}
			out = append(out, NewLiteral(buf, complete))
			if len(out) >= maxCount {
				return NewSeq(out...)
			}
		}
	}
	return NewSeq(out...)
}

// expandCharClass expands a small character class into one literal per
// rune; classes larger than MaxClassSize are left unexpanded (empty Seq).
func (e *Extractor) expandCharClass(re *syntax.Regexp) *Seq {
	if re.Op != syntax.OpCharClass {
		return NewSeq()
	}
	count := 0
	for i := 0; i < len(re.Rune); i += 2 {
		count += int(re.Rune[i+1]-re.Rune[i]) + 1
		if count > e.config.MaxClassSize {
			return NewSeq()
		}
	}
	var lits []Literal
	for i := 0; i < len(re.Rune); i += 2 {
		for r := re.Rune[i]; r <= re.Rune[i+1]; r++ {
			lits = append(lits, NewLiteral([]byte(string(r)), true))
			if len(lits) >= e.config.MaxLiterals {
				return NewSeq(lits...)
			}
		}
	}
	return NewSeq(lits...)
}

func runeSliceToBytes(runes []rune) []byte {
	return []byte(string(runes))
}
