package bdd

// Probability computes the exact probability that ref evaluates true,
// given each variable's (order-indexed) occurrence probability. It
// memoizes per-node results in the node's own scratch field (spec §3.3
// "probability scratch field"), tagged by a generation counter so the
// same Diagram can be reused across successive probability queries
// (e.g. one per importance-measure perturbation) without clearing state.
func (d *Diagram) Probability(ref int, pVars map[int]float64) float64 {
	d.generation++
	return d.probability(ref, pVars, d.generation)
}

func (d *Diagram) probability(ref int, pVars map[int]float64, gen int) float64 {
	idx, pos := lit(ref)
	n := &d.nodes[idx]
	if n.terminal {
		if pos {
			return 1.0
		}
		return 0.0
	}
	if n.mark == gen {
		if pos {
			return n.prob
		}
		return 1 - n.prob
	}

	pv := pVars[n.varOrder]
	highP := d.probability(n.high, pVars, gen)
	lowP := d.probability(n.low, pVars, gen)
	val := pv*highP + (1-pv)*lowP

	n.mark = gen
	n.prob = val
	if pos {
		return val
	}
	return 1 - val
}
