package bdd

import "math"

// Not returns the signed reference to the logical negation of f. With
// complement edges this is the whole point of the representation: no
// new node is ever allocated, the sign is simply flipped (spec §3.3).
func Not(f int) int { return -f }

// And returns f AND g, building any new nodes required.
func (d *Diagram) And(f, g int) int { return d.applyBinary(opAnd, f, g) }

// Or returns f OR g, building any new nodes required.
func (d *Diagram) Or(f, g int) int { return d.applyBinary(opOr, f, g) }

// Xor returns f XOR g, building any new nodes required.
func (d *Diagram) Xor(f, g int) int { return d.applyBinary(opXor, f, g) }

func (d *Diagram) varOrderOf(ref int) int {
	idx, _ := lit(ref)
	if d.nodes[idx].terminal {
		return math.MaxInt
	}
	return d.nodes[idx].varOrder
}

// cofactor splits ref into its high/low branches with respect to
// variable, or returns (ref, ref) when ref does not depend on variable.
func (d *Diagram) cofactor(ref, variable int) (high, low int) {
	idx, pos := lit(ref)
	if d.nodes[idx].terminal || d.nodes[idx].varOrder != variable {
		return ref, ref
	}
	n := d.nodes[idx]
	if pos {
		return n.high, n.low
	}
	return Not(n.high), Not(n.low)
}

// applyBinary is the shared recursive Apply kernel for AND/OR/XOR,
// memoized via the compute table and canonicalized so the high edge of
// every stored node is never complemented (spec §3.3).
func (d *Diagram) applyBinary(op byte, f, g int) int {
	if term, ok := terminalShortcut(op, f, g); ok {
		return term
	}

	left, right := f, g
	if absIdx(left) > absIdx(right) {
		left, right = right, left
	}
	key := computeKey{op: op, left: left, right: right}
	if res, ok := d.compute[key]; ok {
		return res
	}

	variable := d.varOrderOf(f)
	if gv := d.varOrderOf(g); gv < variable {
		variable = gv
	}
	fHigh, fLow := d.cofactor(f, variable)
	gHigh, gLow := d.cofactor(g, variable)

	resHigh := d.applyBinary(op, fHigh, gHigh)
	resLow := d.applyBinary(op, fLow, gLow)

	var result int
	if resHigh < 0 {
		result = Not(d.getOrCreate(variable, Not(resHigh), Not(resLow)))
	} else {
		result = d.getOrCreate(variable, resHigh, resLow)
	}

	d.compute[key] = result
	d.purgeComputeIfNeeded()
	return result
}

func absIdx(ref int) int {
	idx, _ := lit(ref)
	return idx
}

// terminalShortcut applies the short-circuit identities for AND/OR/XOR
// against TRUE, FALSE, identical, and complementary operands, avoiding
// recursion (and a compute-table entry) for the common cases.
func terminalShortcut(op byte, f, g int) (int, bool) {
	switch op {
	case opAnd:
		switch {
		case f == FalseRef || g == FalseRef:
			return FalseRef, true
		case f == TrueRef:
			return g, true
		case g == TrueRef:
			return f, true
		case f == g:
			return f, true
		case f == Not(g):
			return FalseRef, true
		}
	case opOr:
		switch {
		case f == TrueRef || g == TrueRef:
			return TrueRef, true
		case f == FalseRef:
			return g, true
		case g == FalseRef:
			return f, true
		case f == g:
			return f, true
		case f == Not(g):
			return TrueRef, true
		}
	case opXor:
		switch {
		case f == FalseRef:
			return g, true
		case g == FalseRef:
			return f, true
		case f == TrueRef:
			return Not(g), true
		case g == TrueRef:
			return Not(f), true
		case f == g:
			return FalseRef, true
		case f == Not(g):
			return TrueRef, true
		}
	}
	return 0, false
}
