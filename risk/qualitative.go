package risk

import (
	"sort"

	"github.com/scram-go/scram/bdd"
)

// primeImplicantsFromBDD enumerates every root-to-TRUE path of d as a
// signed literal set, encoding variable order v as v+1 (negated on the
// low branch). The paths are pairwise disjoint cubes that together cover
// the onset; they are not reduced to prime implicants, so a path may
// carry a literal a prime implicant would drop (for A OR B with A
// ordered first, the paths are {A} and {NOT A, B}).
func primeImplicantsFromBDD(d *bdd.Diagram, root int) [][]int {
	var out [][]int
	var walk func(ref int, acc []int)
	walk = func(ref int, acc []int) {
		switch ref {
		case bdd.FalseRef:
			return
		case bdd.TrueRef:
			out = append(out, append([]int(nil), acc...))
			return
		}
		idx := ref
		positive := true
		if ref < 0 {
			idx, positive = -ref, false
		}
		if d.IsTerminal(idx) {
			if positive {
				out = append(out, append([]int(nil), acc...))
			}
			return
		}
		v := d.VarOrder(idx)
		high, low := d.High(idx), d.Low(idx)
		if !positive {
			high, low = -high, -low
		}
		walk(high, append(acc, v+1))
		walk(low, append(acc, -(v+1)))
	}
	walk(root, nil)
	return out
}

// buildQualitative assembles a Qualitative record from a product list,
// point probabilities, and cut-off bookkeeping (spec §3.5, §6.2).
func buildQualitative(basicEvents []string, original, pruned [][]int, pVars map[int]float64, cutOffApplied bool, appliedCutOff float64) *Qualitative {
	q := &Qualitative{
		BasicEvents:         basicEvents,
		OriginalProducts:    len(original),
		PrunedProducts:      len(pruned),
		CutOffApplied:       cutOffApplied,
		AppliedCutOff:       appliedCutOff,
		DistributionByOrder: make(map[int]int),
	}
	for _, lits := range pruned {
		sorted := append([]int(nil), lits...)
		sort.Ints(sorted)
		prob := 1.0
		for _, v := range sorted {
			prob *= pVars[v]
		}
		q.Products = append(q.Products, Product{Literals: sorted, Probability: prob})
		q.DistributionByOrder[len(sorted)]++
	}
	return q
}

// applyContribution fills in each Product's Contribution fraction of
// pTotal, once pTotal is known (spec §6.2 "contribution of top event
// probability").
func applyContribution(q *Qualitative, pTotal float64) {
	if q == nil || pTotal == 0 {
		return
	}
	for i := range q.Products {
		q.Products[i].Contribution = q.Products[i].Probability / pTotal
	}
}
