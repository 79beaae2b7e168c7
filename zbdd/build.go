package zbdd

import (
	"fmt"

	"github.com/scram-go/scram/pdag"
)

// ErrUnsupportedConnective indicates the PDAG contains a gate
// connective the standalone ZBDD path does not reduce directly; run
// preprocess.PreprocessFor(p, preprocess.TargetZBDD) first so only
// AND/OR survive (MOCUS's NNF post-condition is sufficient for this
// builder too).
var ErrUnsupportedConnective = fmt.Errorf("zbdd: unsupported gate connective")

// Build consumes a preprocessed, NNF PDAG (positive literals only) and
// computes its minimal cut sets directly: Union over OR-gates, Product
// over AND-gates, then Minimize (spec §4.3.2 "When used as a standalone
// algorithm, ZBDD consumes the preprocessed PDAG and computes the
// family directly").
func Build(p *pdag.Pdag) (*Family, int, error) {
	f := NewFamily()
	memo := make(map[int]int)
	root, err := buildNode(f, p, p.Root(), memo)
	if err != nil {
		return nil, 0, err
	}
	return f, f.Minimize(root), nil
}

func buildNode(f *Family, p *pdag.Pdag, idx int, memo map[int]int) (int, error) {
	if ref, ok := memo[idx]; ok {
		return ref, nil
	}
	var ref int
	var err error
	switch {
	case p.IsVariable(idx):
		ref = f.Singleton(p.VarOrder(idx))
	case p.IsGate(idx):
		ref, err = buildGate(f, p, idx, memo)
	default:
		return 0, fmt.Errorf("zbdd: node %d is neither variable nor gate", idx)
	}
	if err != nil {
		return 0, err
	}
	memo[idx] = ref
	return ref, nil
}

func buildGate(f *Family, p *pdag.Pdag, idx int, memo map[int]int) (int, error) {
	args := p.Args(idx)
	refs := make([]int, len(args))
	for i, e := range args {
		child, pos := pdag.Lit(e)
		if !pos {
			return 0, fmt.Errorf("zbdd: negative literal reaching gate %q: %w", p.GateOrigin(idx), ErrUnsupportedConnective)
		}
		r, err := buildNode(f, p, child, memo)
		if err != nil {
			return 0, err
		}
		refs[i] = r
	}
	switch p.Connective(idx) {
	case pdag.OR:
		acc := EMPTY
		for _, r := range refs {
			acc = f.Union(acc, r)
		}
		return acc, nil
	case pdag.AND:
		acc := BASE
		for _, r := range refs {
			acc = f.Product(acc, r)
		}
		return acc, nil
	default:
		return 0, fmt.Errorf("zbdd: gate %q: %w: %v", p.GateOrigin(idx), ErrUnsupportedConnective, p.Connective(idx))
	}
}
