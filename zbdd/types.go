// Package zbdd implements a zero-suppressed binary decision diagram
// representing a family of sets of positive literals (spec §3.4): the
// minimal-cut-set / prime-implicant product containers MOCUS and the
// standalone ZBDD qualitative engine both produce and consume.
package zbdd

import "math"

// Terminal values: EMPTY is the empty family (no sets); BASE is the
// family containing exactly the empty set (spec §3.4).
const (
	EMPTY = 1
	BASE  = 2
)

// setNode is one ZDD vertex: `{var_order, high, low}` with the
// zero-suppression reduction rule "a SetNode with high == EMPTY is
// reduced to low" (spec §3.4).
type setNode struct {
	varOrder int
	high     int
	low      int
}

type uniqueKey struct {
	varOrder int
	high     int
	low      int
}

// Family owns the node arena and unique table for one ZDD universe.
// Multiple root references (returned by Union/Product/etc.) may share
// the same Family so that structural sharing spans an entire analysis.
type Family struct {
	nodes  []setNode // nodes[1]=EMPTY sentinel, nodes[2]=BASE sentinel (unused fields)
	unique map[uniqueKey]int
}

// NewFamily returns an empty Family with its two terminals allocated.
func NewFamily() *Family {
	return &Family{
		nodes:  make([]setNode, 3, 256),
		unique: make(map[uniqueKey]int),
	}
}

// IsTerminal reports whether ref is EMPTY or BASE.
func IsTerminal(ref int) bool { return ref == EMPTY || ref == BASE }

func (f *Family) varOrderOf(ref int) int {
	if IsTerminal(ref) {
		return math.MaxInt
	}
	return f.nodes[ref].varOrder
}

// cofactor splits ref into (high, low) with respect to variable. A ref
// whose own top variable differs from variable does not depend on it:
// such a family has no member containing variable, so its high cofactor
// is EMPTY and its low cofactor is ref itself.
func (f *Family) cofactor(ref, variable int) (high, low int) {
	if IsTerminal(ref) || f.nodes[ref].varOrder != variable {
		return EMPTY, ref
	}
	n := f.nodes[ref]
	return n.high, n.low
}

// mk applies the zero-suppression rule and returns the unique node for
// (variable, high, low).
func (f *Family) mk(variable, high, low int) int {
	if high == EMPTY {
		return low
	}
	key := uniqueKey{varOrder: variable, high: high, low: low}
	if idx, ok := f.unique[key]; ok {
		return idx
	}
	f.nodes = append(f.nodes, setNode{varOrder: variable, high: high, low: low})
	idx := len(f.nodes) - 1
	f.unique[key] = idx
	return idx
}

// Len returns the number of populated non-terminal nodes.
func (f *Family) Len() int { return len(f.nodes) - 3 }
