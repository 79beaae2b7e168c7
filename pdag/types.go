package pdag

// Connective enumerates the normal-form gate operators a PDAG node may
// carry (spec §3.2): a strict subset of mef.Connective — IFF, IMPLY, and
// CARDINALITY are rewritten to this set during construction (spec §3.1
// "CARDINALITY[L,H]" folds to nested ATLEAST gates; IFF becomes a NOT
// gate over an XOR, and IMPLY an OR whose first edge is negated), matching the way the original engine's
// pdag.h constructor only ever emits this reduced operator set.
type Connective int

const (
	AND Connective = iota
	OR
	XOR
	NAND
	NOR
	NOT
	NULLOp
	ATLEAST // k-of-n; Node.K holds the threshold
)

// kind discriminates a node's variant the way core.Edge's Directed field
// overrides a shared struct shape rather than using a Go interface —
// cheaper to store and to switch on for tens of millions of nodes.
type kind byte

const (
	kVariable kind = iota
	kConstant
	kGate
)

// node is the arena-resident representation of one PDAG vertex. Only the
// fields relevant to its kind are meaningful; the others are zero.
type node struct {
	k kind

	// Variable: originating mef.BasicEvent name, for diagnostics and for
	// the bimap that the builder keeps between PDAG index and mef.Gate.
	varName string

	// Gate fields.
	conn    Connective
	k_      int   // ATLEAST threshold
	args    []int // signed child indices (Lit encoding)
	origin  string // mef.Gate.Name this node was built from, diagnostics only

	// parents is the weak back-reference set used by the preprocessor to
	// walk upward without a separate reverse graph, grounded in
	// core.Graph's adjacencyList rebuild-on-mutate pattern.
	parents map[int]struct{}

	// module marks a gate as an analysis module (spec §4.2 P2.2): no
	// variable inside its subtree is referenced by a gate outside it.
	module bool
}

// Pdag is one Boolean-DAG normal-form graph rooted at a single gate.
// Index 0 is reserved (never a valid node); indices are 1-based so that
// the zero value of an edge field unambiguously means "absent".
type Pdag struct {
	nodes []node // nodes[0] is the sentinel; real nodes start at index 1

	// variableStart is the first index reserved for Variable nodes. Variable
	// nodes are allocated interleaved with gates during the build, so the
	// Variable indices are not guaranteed to form a dense range.
	variableStart int

	// constantNode is the single shared TRUE constant's index, or 0 if the
	// PDAG has no constant node yet.
	constantNode int

	root       int  // index of the root gate
	Complement bool // true: PDAG represents the negation of root

	Normal       bool // no XOR/ATLEAST reachable from root
	Coherent     bool // no negations reachable from root
	HasNullGates bool
	HasConstants bool

	// varOrder maps a Variable node index to its assigned linear order,
	// set once by the preprocessor's ordering pass (spec §3.2 "Ordering").
	varOrder map[int]int

	// bimap between PDAG gate index and the mef.Gate it was built from,
	// used by diagnostics and by incremental rebuilds.
	gateOf map[int]string
}

// newArena returns an empty Pdag with the sentinel node pre-allocated.
func newArena() *Pdag {
	return &Pdag{
		nodes:  make([]node, 1, 64),
		gateOf: make(map[int]string),
	}
}

// alloc appends n to the arena and returns its 1-based index.
func (p *Pdag) alloc(n node) int {
	if n.parents == nil {
		n.parents = make(map[int]struct{})
	}
	p.nodes = append(p.nodes, n)
	return len(p.nodes) - 1
}

// Len returns the number of populated nodes, excluding the sentinel.
func (p *Pdag) Len() int { return len(p.nodes) - 1 }

// Root returns the PDAG's root gate index.
func (p *Pdag) Root() int { return p.root }

// Lit decodes a signed edge into its target index and polarity, per
// spec §3.2 ("negation is encoded by negating the index on an edge").
func Lit(edge int) (index int, positive bool) {
	if edge < 0 {
		return -edge, false
	}
	return edge, true
}

// MakeLit encodes index with the given polarity into a signed edge.
func MakeLit(index int, positive bool) int {
	if positive {
		return index
	}
	return -index
}

// IsVariable, IsConstant, IsGate report which variant
// occupies idx, for callers (preprocess, bdd, zbdd) that branch on shape.
func (p *Pdag) IsVariable(idx int) bool { return p.nodes[idx].k == kVariable }
func (p *Pdag) IsConstant(idx int) bool { return p.nodes[idx].k == kConstant }
func (p *Pdag) IsGate(idx int) bool     { return p.nodes[idx].k == kGate }

// VariableName returns the originating BasicEvent name for a Variable node.
func (p *Pdag) VariableName(idx int) string { return p.nodes[idx].varName }

// Connective returns a gate node's operator.
func (p *Pdag) Connective(idx int) Connective { return p.nodes[idx].conn }

// Threshold returns an ATLEAST gate's k.
func (p *Pdag) Threshold(idx int) int { return p.nodes[idx].k_ }

// Args returns a gate node's signed child edges. Callers must not mutate
// the returned slice; use SetArgs.
func (p *Pdag) Args(idx int) []int { return p.nodes[idx].args }

// SetArgs replaces a gate node's argument list and rebuilds parent
// back-references for both the removed and added children, the way
// core.Graph.RemoveVertex rebuilds adjacencyList on mutation.
func (p *Pdag) SetArgs(idx int, args []int) {
	old := p.nodes[idx].args
	for _, e := range old {
		child, _ := Lit(e)
		delete(p.nodes[child].parents, idx)
	}
	p.nodes[idx].args = args
	for _, e := range args {
		child, _ := Lit(e)
		p.nodes[child].parents[idx] = struct{}{}
	}
}

// Parents returns the set of gate indices that reference idx as an argument.
func (p *Pdag) Parents(idx int) map[int]struct{} { return p.nodes[idx].parents }

// VarOrder returns the linear order assigned to a Variable node by the
// preprocessor, or -1 if unassigned.
func (p *Pdag) VarOrder(idx int) int {
	if p.varOrder == nil {
		return -1
	}
	if o, ok := p.varOrder[idx]; ok {
		return o
	}
	return -1
}

// SetVarOrder records the linear order assigned to a Variable node.
func (p *Pdag) SetVarOrder(idx, order int) {
	if p.varOrder == nil {
		p.varOrder = make(map[int]int)
	}
	p.varOrder[idx] = order
}

// Variables returns every Variable node index in the arena, in index
// (insertion) order.
func (p *Pdag) Variables() []int {
	var out []int
	for i := 1; i < len(p.nodes); i++ {
		if p.nodes[i].k == kVariable {
			out = append(out, i)
		}
	}
	return out
}

// Gates returns every Gate node index in the arena, in index order.
func (p *Pdag) Gates() []int {
	var out []int
	for i := 1; i < len(p.nodes); i++ {
		if p.nodes[i].k == kGate {
			out = append(out, i)
		}
	}
	return out
}

// ConstantNode returns the shared TRUE constant's index, or 0 if the
// PDAG has no constant node.
func (p *Pdag) ConstantNode() int { return p.constantNode }

// EnsureConstant returns the shared TRUE constant node, allocating it on
// first use.
func (p *Pdag) EnsureConstant() int {
	if p.constantNode == 0 {
		p.constantNode = p.alloc(node{k: kConstant})
		p.HasConstants = true
	}
	return p.constantNode
}

// AllocGate appends a new Gate node and wires its parent back-references,
// used by the preprocessor when it synthesizes replacement gates (e.g.
// expanding ATLEAST/XOR into AND/OR trees).
func (p *Pdag) AllocGate(conn Connective, k int, args []int, origin string) int {
	idx := p.alloc(node{k: kGate, conn: conn, k_: k, args: args, origin: origin})
	for _, e := range args {
		child, _ := Lit(e)
		p.nodes[child].parents[idx] = struct{}{}
	}
	p.gateOf[idx] = origin
	return idx
}

// SetConnective overwrites a gate node's operator in place, used when the
// preprocessor rewrites a gate's shape without reallocating it (e.g. P3
// turning an expanded XOR/ATLEAST gate into OR, or P4 folding NAND/NOR
// into OR/AND).
func (p *Pdag) SetConnective(idx int, conn Connective) { p.nodes[idx].conn = conn }

// SetThreshold overwrites an ATLEAST gate's k in place.
func (p *Pdag) SetThreshold(idx, k int) { p.nodes[idx].k_ = k }

// SetRoot overwrites the PDAG's root gate index, used when the
// preprocessor replaces the root with a synthesized gate.
func (p *Pdag) SetRoot(idx int) { p.root = idx }

// GateOrigin returns the originating mef.Gate name recorded for idx, or
// the empty string for synthesized gates with no single MEF origin.
func (p *Pdag) GateOrigin(idx int) string { return p.nodes[idx].origin }

// SetModule marks idx as a module boundary (spec §4.2 P2.2).
func (p *Pdag) SetModule(idx int, isModule bool) { p.nodes[idx].module = isModule }

// IsModule reports whether idx was marked a module boundary.
func (p *Pdag) IsModule(idx int) bool { return p.nodes[idx].module }

// PostOrder returns every Gate reachable from root, children before
// parents, each gate visited exactly once — the order P1-P5 and the
// variable-ordering pass walk in, grounded in dfs.TopologicalSort's
// post-order DFS over core.Graph.
func (p *Pdag) PostOrder() []int {
	visited := make(map[int]bool)
	var order []int
	var visit func(int)
	visit = func(idx int) {
		if visited[idx] || p.nodes[idx].k != kGate {
			return
		}
		visited[idx] = true
		for _, e := range p.nodes[idx].args {
			child, _ := Lit(e)
			visit(child)
		}
		order = append(order, idx)
	}
	visit(p.root)
	return order
}
