package zbdd

import (
	"math"
	"sort"
)

// Minimize removes every set in ref that is a (non-strict) superset of
// another set in ref, the "subsume-and-strip" identity (spec §3.4):
// after Minimize, no set in the family is a superset of another.
//
// Implemented by explicit enumeration — correct for the product counts
// this engine's MOCUS/ZBDD front ends produce in practice; documented
// as a simplification of the structural recursive identity for very
// large families (see DESIGN.md).
func (f *Family) Minimize(ref int) int {
	products := f.Enumerate(ref)
	sort.Slice(products, func(i, j int) bool { return len(products[i]) < len(products[j]) })

	var kept [][]int
	for _, p := range products {
		subsumed := false
		for _, k := range kept {
			if isSubset(k, p) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, p)
		}
	}
	return f.BuildFromProducts(kept)
}

// isSubset reports whether every element of a (sorted ascending) also
// appears in b (sorted ascending).
func isSubset(a, b []int) bool {
	bi := 0
	for _, av := range a {
		for bi < len(b) && b[bi] < av {
			bi++
		}
		if bi >= len(b) || b[bi] != av {
			return false
		}
	}
	return true
}

// ApplyCardinalityCutoff drops every set of cardinality greater than k
// (spec §3.4).
func (f *Family) ApplyCardinalityCutoff(ref, k int) int {
	products := f.Enumerate(ref)
	var kept [][]int
	for _, p := range products {
		if len(p) <= k {
			kept = append(kept, p)
		}
	}
	return f.BuildFromProducts(kept)
}

// UpperBoundProbability computes min(1, sum(ln(1/(1-p_i)))) for one
// product's variables: under independence, an upper bound on the
// probability that at least one of them occurs.
func UpperBoundProbability(product []int, pVars map[int]float64) float64 {
	sum := 0.0
	for _, v := range product {
		p := pVars[v]
		if p >= 1 {
			return 1
		}
		sum += math.Log(1 / (1 - p))
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// ApplyProbabilityCutoff drops every set whose probability under
// independence (the product of its variables' pVars entries) falls below
// pMin (spec §3.4).
func (f *Family) ApplyProbabilityCutoff(ref int, pMin float64, pVars map[int]float64) int {
	products := f.Enumerate(ref)
	var kept [][]int
	for _, p := range products {
		prob := 1.0
		for _, v := range p {
			prob *= pVars[v]
		}
		if prob >= pMin {
			kept = append(kept, p)
		}
	}
	return f.BuildFromProducts(kept)
}
