package bdd

// vertex is one BDD node: either the shared TRUE terminal (terminal
// field true, var unused) or an Ite node `if var then high else low`
// (spec §3.3). Edges are signed ints using the same Lit encoding as
// package pdag: a negative target means "the low edge carries a
// complement", kept canonical by always storing the high edge
// uncomplemented (spec "canonical form keeps high-edge non-complemented;
// a boolean on the low edge flips polarity").
type vertex struct {
	terminal bool
	varOrder int
	high     int // always a positive reference (possibly to the terminal)
	low      int // signed: negative means complemented

	// prob and mark support the recursive probability computation and any
	// other tree-marking traversal (spec §3.3 "probability scratch field
	// plus a generation mark").
	prob float64
	mark int
}

// Diagram is a reduced-ordered BDD with complement edges: a unique
// table giving every distinct (var, high, low) triple one shared node,
// and a compute table memoizing binary Apply results.
type Diagram struct {
	nodes []vertex // nodes[1] is the shared TRUE terminal; index 0 unused

	unique  map[uniqueKey]int
	compute map[computeKey]int

	// computeHighWaterMark bounds compute-table growth; once crossed the
	// table is purged (spec §3.3 "purged when size crosses a high-water
	// mark").
	computeHighWaterMark int

	generation int // bumped per traversal needing fresh marks
}

type uniqueKey struct {
	varOrder  int
	high      int
	low       int
}

type computeKey struct {
	op    byte
	left  int
	right int
}

const (
	opAnd byte = iota
	opOr
	opXor
)

// TrueRef and FalseRef are the signed references to the shared terminal.
const TrueRef = 1

// FalseRef is the complemented edge to the terminal, representing FALSE.
const FalseRef = -1

// NewDiagram returns an empty Diagram with its terminal allocated.
func NewDiagram() *Diagram {
	d := &Diagram{
		nodes:                 make([]vertex, 2, 256),
		unique:                make(map[uniqueKey]int),
		compute:               make(map[computeKey]int),
		computeHighWaterMark:  100000,
	}
	d.nodes[1] = vertex{terminal: true}
	return d
}

// lit decodes a signed BDD reference into (index, positive).
func lit(ref int) (index int, positive bool) {
	if ref < 0 {
		return -ref, false
	}
	return ref, true
}

// makeLit encodes index with the given polarity into a signed reference.
func makeLit(index int, positive bool) int {
	if positive {
		return index
	}
	return -index
}

// Variable returns the signed reference for the Ite node deciding on
// the given variable order (high=TRUE, low=FALSE), allocating it on
// first use and reusing it thereafter via the unique table.
func (d *Diagram) Variable(order int) int { return d.getOrCreate(order, TrueRef, FalseRef) }

// IsTerminal reports whether idx is the shared TRUE terminal.
func (d *Diagram) IsTerminal(idx int) bool { return d.nodes[idx].terminal }

// VarOrder returns an Ite node's decision variable rank.
func (d *Diagram) VarOrder(idx int) int { return d.nodes[idx].varOrder }

// High returns an Ite node's high edge (always positive).
func (d *Diagram) High(idx int) int { return d.nodes[idx].high }

// Low returns an Ite node's low edge (signed).
func (d *Diagram) Low(idx int) int { return d.nodes[idx].low }

// Len returns the number of populated non-terminal nodes.
func (d *Diagram) Len() int { return len(d.nodes) - 2 }

// getOrCreate returns the unique node for (varOrder, high, low),
// applying the zero-suppression-free BDD reduction rule: if high == low
// the node is redundant and its low edge is returned directly.
func (d *Diagram) getOrCreate(varOrder, high, low int) int {
	if high == low {
		return high
	}
	key := uniqueKey{varOrder: varOrder, high: high, low: low}
	if idx, ok := d.unique[key]; ok {
		return idx
	}
	d.nodes = append(d.nodes, vertex{varOrder: varOrder, high: high, low: low})
	idx := len(d.nodes) - 1
	d.unique[key] = idx
	return idx
}

// purgeComputeIfNeeded clears the compute table once it crosses the
// high-water mark (spec §3.3).
func (d *Diagram) purgeComputeIfNeeded() {
	if len(d.compute) >= d.computeHighWaterMark {
		d.compute = make(map[computeKey]int)
	}
}
