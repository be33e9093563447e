package nfa

// Builder constructs NFA nodes incrementally in a shared Store. It
// provides the same low-level, single-next-patch-target API the
// teacher's Builder exposes (nfa/builder.go), adapted to runes and to a
// shared multi-pattern arena: AddX methods append a node and return its
// id, and Patch rewires a forward reference once the target is known.
type Builder struct {
	store *Store
}

// NewBuilder wraps store for incremental construction.
func NewBuilder(store *Store) *Builder {
	return &Builder{store: store}
}

// AddChar adds a consuming edge guarded by pred, targeting next.
func (b *Builder) AddChar(pred Predicate, next NodeID) NodeID {
	return b.store.alloc(Node{kind: KindChar, pred: pred, next: next})
}

// AddSplit adds an alternation/quantifier fork with two epsilon targets.
func (b *Builder) AddSplit(left, right NodeID) NodeID {
	return b.store.alloc(Node{kind: KindSplit, left: left, right: right})
}

// AddEpsilon adds a single unconditional epsilon edge.
func (b *Builder) AddEpsilon(next NodeID) NodeID {
	return b.store.alloc(Node{kind: KindEpsilon, next: next})
}

// AddLook adds a zero-width assertion edge.
func (b *Builder) AddLook(look Look, next NodeID) NodeID {
	return b.store.alloc(Node{kind: KindLook, look: look, next: next})
}

// AddMatch adds a terminal node accepting pattern p.
func (b *Builder) AddMatch(p PatternID) NodeID {
	return b.store.alloc(Node{kind: KindMatch, pattern: p})
}

// AddFail adds a dead node with no outgoing edges.
func (b *Builder) AddFail() NodeID {
	return b.store.alloc(Node{kind: KindFail})
}

// Patch rewires the forward-reference target of id to target. Only valid
// for single-target kinds (Char, Epsilon, Look); Split/Match/Fail have no
// single "next" to patch, matching the teacher's Patch restriction
// (nfa/builder.go).
func (b *Builder) Patch(id, target NodeID) error {
	n := b.store.Node(id)
	switch n.kind {
	case KindChar, KindEpsilon, KindLook:
		n.next = target
		return nil
	default:
		return &BuildError{Message: "cannot patch node of this kind", NodeID: id}
	}
}
