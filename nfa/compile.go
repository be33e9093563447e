package nfa

import (
	"fmt"
	"regexp/syntax"
	"sort"
	"unicode"
)

// CompileErrorKind classifies why a pattern failed to compile, per
// spec.md §4.1.
type CompileErrorKind uint8

const (
	// ErrSyntax means the pattern string itself is not valid regex syntax.
	ErrSyntax CompileErrorKind = iota
	// ErrUnsupportedFeature means the pattern is valid regex syntax but
	// uses a construct this engine doesn't implement (e.g. back-references,
	// look-around, named captures — explicitly out of scope per spec.md §1).
	ErrUnsupportedFeature
	// ErrLimitExceeded means the pattern would exceed a configured
	// compilation limit (e.g. MaxNFANodesPerPattern).
	ErrLimitExceeded
)

// CompileError reports a failure to compile a pattern. Registration is
// atomic: on CompileError no nodes from the failed pattern remain
// reachable from any other pattern's start node (spec.md §4.1: "the
// engine MUST reject compilation atomically").
type CompileError struct {
	Kind     CompileErrorKind
	Pattern  string
	Position int
	Message  string
	Err      error
}

func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("compile error in pattern %q at %d: %s", e.Pattern, e.Position, e.Message)
	}
	return fmt.Sprintf("compile error: %s", e.Message)
}

func (e *CompileError) Unwrap() error { return e.Err }

// CompilerConfig controls how patterns are translated into NFA nodes.
type CompilerConfig struct {
	// CaseInsensitive folds ASCII and simple-case Unicode letters.
	CaseInsensitive bool
	// Multiline makes ^ and $ match at line boundaries, not just buffer
	// boundaries.
	Multiline bool
	// DotNL makes '.' also match '\n'.
	DotNL bool
	// MaxNodes bounds the number of NFA nodes a single pattern may
	// produce; exceeding it yields ErrLimitExceeded (spec.md §6
	// max_nfa_nodes_per_pattern).
	MaxNodes int
	// MaxRecursionDepth bounds AST recursion to guard against
	// pathologically nested patterns.
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns sensible defaults, matching the
// top-level engine's configuration defaults (spec.md §6).
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxNodes:          16384,
		MaxRecursionDepth: 1000,
	}
}

// Compiler performs Thompson construction of regex patterns into a
// shared Store, grounded on the teacher's recursive compileRegexp
// (nfa/compile.go) but operating on runes and appending into a node
// arena shared across every registered pattern instead of a private,
// per-pattern Builder.
type Compiler struct {
	store   *Store
	builder *Builder
	depth   int
}

// NewCompiler creates a compiler that allocates nodes into store.
func NewCompiler(store *Store) *Compiler {
	return &Compiler{store: store, builder: NewBuilder(store)}
}

// Compile parses pattern and Thompson-constructs it into the compiler's
// Store, returning the start node for pattern id p. The accepting state
// is a KindMatch node reachable from start via pred-satisfying and
// epsilon edges; it carries p so the shared, multi-pattern subset
// construction can tell which pattern a given DFA state accepts.
func (c *Compiler) Compile(p PatternID, pattern string, cfg CompilerConfig) (start NodeID, err error) {
	c.depth = 0
	if cfg.MaxNodes == 0 {
		cfg = DefaultCompilerConfig()
	}

	flags := syntax.Perl
	if cfg.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	if cfg.Multiline {
		flags &^= syntax.OneLine
	}
	re, perr := syntax.Parse(pattern, flags)
	if perr != nil {
		return InvalidNode, &CompileError{Kind: ErrSyntax, Pattern: pattern, Message: perr.Error(), Err: perr}
	}
	re = re.Simplify()

	beforeNodes := c.store.Len()
	startN, endN, err := c.compileNode(re, cfg, pattern)
	if err != nil {
		return InvalidNode, err
	}

	matchN := c.builder.AddMatch(p)
	if err := c.patchFragmentEnd(endN, matchN); err != nil {
		return InvalidNode, &CompileError{Kind: ErrSyntax, Pattern: pattern, Message: "failed to connect to match node", Err: err}
	}

	if c.store.Len()-beforeNodes > cfg.MaxNodes {
		return InvalidNode, &CompileError{
			Kind:    ErrLimitExceeded,
			Pattern: pattern,
			Message: fmt.Sprintf("pattern produced %d nodes, exceeding limit %d", c.store.Len()-beforeNodes, cfg.MaxNodes),
		}
	}
	return startN, nil
}

// compileNode recursively compiles re, returning (start, end) where end
// is a forward-reference node whose single "next" target must be
// patched by the caller, exactly the convention the teacher's
// compileRegexp uses (nfa/compile.go).
func (c *Compiler) compileNode(re *syntax.Regexp, cfg CompilerConfig, pattern string) (start, end NodeID, err error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > cfg.MaxRecursionDepth {
		return InvalidNode, InvalidNode, &CompileError{Kind: ErrLimitExceeded, Pattern: pattern, Message: "pattern nesting too deep"}
	}

	switch re.Op {
	case syntax.OpEmptyMatch:
		id := c.builder.AddEpsilon(InvalidNode)
		return id, id, nil

	case syntax.OpLiteral:
		return c.compileLiteral(re.Rune, re.Flags&syntax.FoldCase != 0)

	case syntax.OpCharClass:
		pred := classPredicate(re.Rune)
		id := c.builder.AddChar(pred, InvalidNode)
		return id, id, nil

	case syntax.OpAnyChar:
		id := c.builder.AddChar(Any(true), InvalidNode)
		return id, id, nil

	case syntax.OpAnyCharNotNL:
		id := c.builder.AddChar(Any(cfg.DotNL), InvalidNode)
		return id, id, nil

	case syntax.OpBeginText:
		id := c.builder.AddLook(LookStartText, InvalidNode)
		return id, id, nil
	case syntax.OpEndText:
		id := c.builder.AddLook(LookEndText, InvalidNode)
		return id, id, nil
	case syntax.OpBeginLine:
		look := LookStartLine
		if !cfg.Multiline {
			look = LookStartText
		}
		id := c.builder.AddLook(look, InvalidNode)
		return id, id, nil
	case syntax.OpEndLine:
		look := LookEndLine
		if !cfg.Multiline {
			look = LookEndText
		}
		id := c.builder.AddLook(look, InvalidNode)
		return id, id, nil

	case syntax.OpCapture:
		// Capture groups are out of scope (spec.md §1 non-goals): the
		// grouping is transparent, only its content is compiled.
		return c.compileNode(re.Sub[0], cfg, pattern)

	case syntax.OpConcat:
		return c.compileConcat(re.Sub, cfg, pattern)

	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub, cfg, pattern)

	case syntax.OpStar:
		return c.compileStar(re.Sub[0], cfg, pattern)

	case syntax.OpPlus:
		return c.compilePlus(re.Sub[0], cfg, pattern)

	case syntax.OpQuest:
		return c.compileQuest(re.Sub[0], cfg, pattern)

	case syntax.OpRepeat:
		return c.compileRepeat(re, cfg, pattern)

	case syntax.OpNoMatch:
		id := c.builder.AddFail()
		return id, id, nil

	default:
		return InvalidNode, InvalidNode, &CompileError{
			Kind:    ErrUnsupportedFeature,
			Pattern: pattern,
			Message: fmt.Sprintf("unsupported regex construct: %v", re.Op),
		}
	}
}

// compileLiteral handles `\Q...\E` style literal rune runs (spec.md
// §4.1) by chaining single-rune Char nodes. When fold is set, each rune
// matches every member of its simple case-folding orbit.
func (c *Compiler) compileLiteral(runes []rune, fold bool) (start, end NodeID, err error) {
	if len(runes) == 0 {
		id := c.builder.AddEpsilon(InvalidNode)
		return id, id, nil
	}
	var firstID NodeID
	var prev NodeID
	for i, r := range runes {
		pred := Literal(r)
		if fold {
			orbit := []RuneRange{{r, r}}
			for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
				orbit = append(orbit, RuneRange{f, f})
			}
			if len(orbit) > 1 {
				sort.Slice(orbit, func(a, b int) bool { return orbit[a].Lo < orbit[b].Lo })
				pred = Class(orbit, false)
			}
		}
		id := c.builder.AddChar(pred, InvalidNode)
		if i == 0 {
			firstID = id
		} else {
			_ = c.builder.Patch(prev, id)
		}
		prev = id
	}
	return firstID, prev, nil
}

func (c *Compiler) compileConcat(subs []*syntax.Regexp, cfg CompilerConfig, pattern string) (start, end NodeID, err error) {
	if len(subs) == 0 {
		id := c.builder.AddEpsilon(InvalidNode)
		return id, id, nil
	}
	start, end, err = c.compileNode(subs[0], cfg, pattern)
	if err != nil {
		return InvalidNode, InvalidNode, err
	}
	for _, sub := range subs[1:] {
		s2, e2, err := c.compileNode(sub, cfg, pattern)
		if err != nil {
			return InvalidNode, InvalidNode, err
		}
		if err := c.patchFragmentEnd(end, s2); err != nil {
			return InvalidNode, InvalidNode, &CompileError{Kind: ErrSyntax, Pattern: pattern, Message: err.Error()}
		}
		end = e2
	}
	return start, end, nil
}

// compileAlternate joins alternatives with a chain of Split forks and an
// epsilon join so every branch shares one "end" to patch, the same
// pattern as the teacher's alternation handling.
func (c *Compiler) compileAlternate(subs []*syntax.Regexp, cfg CompilerConfig, pattern string) (start, end NodeID, err error) {
	if len(subs) == 0 {
		id := c.builder.AddFail()
		return id, id, nil
	}
	if len(subs) == 1 {
		return c.compileNode(subs[0], cfg, pattern)
	}

	join := c.builder.AddEpsilon(InvalidNode)

	var starts []NodeID
	for _, sub := range subs {
		s, e, err := c.compileNode(sub, cfg, pattern)
		if err != nil {
			return InvalidNode, InvalidNode, err
		}
		if err := c.patchFragmentEnd(e, join); err != nil {
			return InvalidNode, InvalidNode, err
		}
		starts = append(starts, s)
	}

	// Fold the alternatives right-to-left into a chain of binary Splits.
	root := starts[len(starts)-1]
	for i := len(starts) - 2; i >= 0; i-- {
		root = c.builder.AddSplit(starts[i], root)
	}
	return root, join, nil
}

// patchFragmentEnd patches a fragment's forward reference, whatever kind
// its "end" node turns out to be: Builder.Patch handles the common
// single-target kinds (Char, Epsilon, Look); a Split end — produced by
// compileStar/compilePlus/compileQuest, whose loop-exit branch is left
// as InvalidNode until the caller knows what follows — is patched by
// filling in whichever of its two branches is still unset.
func (c *Compiler) patchFragmentEnd(end, target NodeID) error {
	n := c.store.Node(end)
	switch n.kind {
	case KindSplit:
		if n.left == InvalidNode {
			n.left = target
		}
		if n.right == InvalidNode {
			n.right = target
		}
		return nil
	default:
		return c.builder.Patch(end, target)
	}
}

// compileStar implements `*` (zero or more, greedy): a Split that either
// enters the body (looping back to itself) or exits.
func (c *Compiler) compileStar(sub *syntax.Regexp, cfg CompilerConfig, pattern string) (start, end NodeID, err error) {
	s, e, err := c.compileNode(sub, cfg, pattern)
	if err != nil {
		return InvalidNode, InvalidNode, err
	}
	split := c.builder.AddSplit(s, InvalidNode)
	if err := c.patchFragmentEnd(e, split); err != nil {
		return InvalidNode, InvalidNode, err
	}
	return split, split, nil
}

// compilePlus implements `+` (one or more, greedy): the body, followed
// by a Split that loops back or exits.
func (c *Compiler) compilePlus(sub *syntax.Regexp, cfg CompilerConfig, pattern string) (start, end NodeID, err error) {
	s, e, err := c.compileNode(sub, cfg, pattern)
	if err != nil {
		return InvalidNode, InvalidNode, err
	}
	split := c.builder.AddSplit(s, InvalidNode)
	if err := c.patchFragmentEnd(e, split); err != nil {
		return InvalidNode, InvalidNode, err
	}
	return s, split, nil
}

// compileQuest implements `?` (zero or one, greedy).
func (c *Compiler) compileQuest(sub *syntax.Regexp, cfg CompilerConfig, pattern string) (start, end NodeID, err error) {
	s, e, err := c.compileNode(sub, cfg, pattern)
	if err != nil {
		return InvalidNode, InvalidNode, err
	}
	join := c.builder.AddEpsilon(InvalidNode)
	if err := c.patchFragmentEnd(e, join); err != nil {
		return InvalidNode, InvalidNode, err
	}
	split := c.builder.AddSplit(s, join)
	return split, join, nil
}

// compileRepeat implements `{n,m}` by unrolling: n mandatory copies
// followed by (m-n) optional copies, or an unbounded `+`/`*` tail when
// Max == -1, per spec.md §4.1 ("{n,m} unrolls").
func (c *Compiler) compileRepeat(re *syntax.Regexp, cfg CompilerConfig, pattern string) (start, end NodeID, err error) {
	min, max := re.Min, re.Max
	sub := re.Sub[0]

	if min == 0 && max == -1 {
		return c.compileStar(sub, cfg, pattern)
	}
	if min == 1 && max == -1 {
		return c.compilePlus(sub, cfg, pattern)
	}

	var fragStart, fragEnd NodeID = InvalidNode, InvalidNode
	appendFrag := func(s, e NodeID) error {
		if fragStart == InvalidNode {
			fragStart = s
			fragEnd = e
			return nil
		}
		if err := c.patchFragmentEnd(fragEnd, s); err != nil {
			return err
		}
		fragEnd = e
		return nil
	}

	for i := 0; i < min; i++ {
		s, e, err := c.compileNode(sub, cfg, pattern)
		if err != nil {
			return InvalidNode, InvalidNode, err
		}
		if err := appendFrag(s, e); err != nil {
			return InvalidNode, InvalidNode, err
		}
	}

	if max == -1 {
		s, e, err := c.compileStar(sub, cfg, pattern)
		if err != nil {
			return InvalidNode, InvalidNode, err
		}
		if err := appendFrag(s, e); err != nil {
			return InvalidNode, InvalidNode, err
		}
	} else {
		for i := min; i < max; i++ {
			s, e, err := c.compileQuest(sub, cfg, pattern)
			if err != nil {
				return InvalidNode, InvalidNode, err
			}
			if err := appendFrag(s, e); err != nil {
				return InvalidNode, InvalidNode, err
			}
		}
	}

	if fragStart == InvalidNode {
		// {0,0}: matches only the empty string.
		id := c.builder.AddEpsilon(InvalidNode)
		return id, id, nil
	}
	return fragStart, fragEnd, nil
}

// classPredicate converts a regexp/syntax char-class rune-range list
// (pairs of lo,hi) into a sorted PredClass predicate.
func classPredicate(pairs []rune) Predicate {
	ranges := make([]RuneRange, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ranges = append(ranges, RuneRange{Lo: pairs[i], Hi: pairs[i+1]})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Lo < ranges[j].Lo })
	return Class(ranges, false)
}
