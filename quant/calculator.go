package quant

import "github.com/scram-go/scram/bdd"

// Calculator is the capability every probability engine provides (spec
// §4.4.1): total failure probability given a map of variable-order to
// point probability.
type Calculator interface {
	Total(pVars map[int]float64) (float64, error)
}

// Conditional is the optional capability a Calculator may additionally
// provide: total probability conditional on variable v taking state.
// ImportanceAnalyzer uses it to compute P(top | v=1) and P(top | v=0).
type Conditional interface {
	Cond(pVars map[int]float64, v int, state bool) (float64, error)
}

// ExactBDD evaluates probability-of-true on a BDD root with per-node
// memoization (spec §4.4.1), reusing bdd.Diagram's own generation-tagged
// cache.
type ExactBDD struct {
	Diagram *bdd.Diagram
	Root    int
}

func (c ExactBDD) Total(pVars map[int]float64) (float64, error) {
	return c.Diagram.Probability(c.Root, pVars), nil
}

// Cond clamps v's probability to 0 or 1 and re-evaluates; the BDD
// backend's memoization makes this a single extra traversal rather than
// the dedicated Shannon-expansion fast path spec.md allows as an
// alternative (see DESIGN.md).
func (c ExactBDD) Cond(pVars map[int]float64, v int, state bool) (float64, error) {
	probed := withOverride(pVars, v, state)
	return c.Diagram.Probability(c.Root, probed), nil
}

func withOverride(pVars map[int]float64, v int, state bool) map[int]float64 {
	out := make(map[int]float64, len(pVars))
	for k, val := range pVars {
		out[k] = val
	}
	if state {
		out[v] = 1
	} else {
		out[v] = 0
	}
	return out
}
