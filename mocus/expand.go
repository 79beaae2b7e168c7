package mocus

import (
	"fmt"

	"github.com/scram-go/scram/pdag"
	"github.com/scram-go/scram/zbdd"
)

// Settings parametrizes MOCUS expansion (spec §4.3.1).
type Settings struct {
	// LimitOrder drops products of cardinality greater than LimitOrder.
	// Zero means unlimited.
	LimitOrder int

	// CutOff drops products whose probability under independence (the
	// product of their variables' probabilities) falls below this
	// threshold. Zero means unlimited; PVars must be
	// supplied whenever CutOff > 0.
	CutOff float64

	// PVars maps a PDAG Variable's assigned order to its point probability,
	// used only by the CutOff prune.
	PVars map[int]float64
}

// Expand consumes a preprocessed, NNF PDAG (spec's "only AND/OR gates;
// no NOT/XOR/ATLEAST/NULL/constants reachable from root; positive
// literals only") and returns its minimal cut sets as a ZBDD family,
// pruning by LimitOrder/CutOff after every AND-join/OR-join fold (spec
// §4.3.1 algorithm).
//
// Module boundaries (pdag.IsModule) are an expansion-order optimization
// in the original engine — letting a module's product set be computed
// once and reused verbatim everywhere it is referenced. This
// implementation gets the same sharing for free from expandNode's
// per-PDAG-index memo table, without needing a separate module-local
// recursion; see DESIGN.md for the simplification.
func Expand(p *pdag.Pdag, settings Settings) (*zbdd.Family, int, error) {
	f := zbdd.NewFamily()
	memo := make(map[int]int)
	root, err := expandNode(f, p, p.Root(), memo, settings)
	if err != nil {
		return nil, 0, err
	}
	root = f.Minimize(root)
	return f, root, nil
}

func expandNode(f *zbdd.Family, p *pdag.Pdag, idx int, memo map[int]int, settings Settings) (int, error) {
	if ref, ok := memo[idx]; ok {
		return ref, nil
	}
	var ref int
	var err error
	switch {
	case p.IsVariable(idx):
		ref = f.Singleton(p.VarOrder(idx))
	case p.IsGate(idx):
		ref, err = expandGate(f, p, idx, memo, settings)
	default:
		return 0, fmt.Errorf("mocus: node %d is neither variable nor gate", idx)
	}
	if err != nil {
		return 0, err
	}
	memo[idx] = ref
	return ref, nil
}

func expandGate(f *zbdd.Family, p *pdag.Pdag, idx int, memo map[int]int, settings Settings) (int, error) {
	args := p.Args(idx)
	children := make([]int, len(args))
	for i, e := range args {
		child, pos := pdag.Lit(e)
		if !pos {
			return 0, fmt.Errorf("mocus: gate %q: %w: negative literal", p.GateOrigin(idx), ErrUnsupportedConnective)
		}
		r, err := expandNode(f, p, child, memo, settings)
		if err != nil {
			return 0, err
		}
		children[i] = r
	}

	var result int
	switch p.Connective(idx) {
	case pdag.OR:
		result = zbdd.EMPTY
		for _, c := range children {
			result = f.Union(result, c)
		}
	case pdag.AND:
		result = zbdd.BASE
		for _, c := range children {
			result = f.Product(result, c)
		}
	default:
		return 0, fmt.Errorf("mocus: gate %q: %w: %v", p.GateOrigin(idx), ErrUnsupportedConnective, p.Connective(idx))
	}

	if settings.LimitOrder > 0 {
		result = f.ApplyCardinalityCutoff(result, settings.LimitOrder)
	}
	if settings.CutOff > 0 {
		result = f.ApplyProbabilityCutoff(result, settings.CutOff, settings.PVars)
	}
	return result, nil
}
