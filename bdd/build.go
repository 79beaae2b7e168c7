package bdd

import (
	"fmt"

	"github.com/scram-go/scram/pdag"
)

// Build converts a preprocessed PDAG into a Diagram rooted at the
// signed reference returned. Callers must have already run
// preprocess.PreprocessFor(p, preprocess.TargetBDD) so that no NULL
// gates remain and every Variable carries an assigned order (spec §3.3
// lifecycle, §4.2 BDD post-condition).
func Build(p *pdag.Pdag) (*Diagram, int, error) {
	d := NewDiagram()
	memo := make(map[int]int) // pdag node index (always positive) -> BDD ref
	root, err := buildNode(d, p, p.Root(), memo)
	if err != nil {
		return nil, 0, err
	}
	if p.Complement {
		root = Not(root)
	}
	return d, root, nil
}

func buildNode(d *Diagram, p *pdag.Pdag, idx int, memo map[int]int) (int, error) {
	if ref, ok := memo[idx]; ok {
		return ref, nil
	}
	var ref int
	var err error
	switch {
	case p.IsConstant(idx):
		ref = TrueRef
	case p.IsVariable(idx):
		ref = d.Variable(p.VarOrder(idx))
	case p.IsGate(idx):
		ref, err = buildGate(d, p, idx, memo)
	}
	if err != nil {
		return 0, err
	}
	memo[idx] = ref
	return ref, nil
}

// childRef resolves a signed PDAG edge to a signed BDD reference.
func childRef(d *Diagram, p *pdag.Pdag, edge int, memo map[int]int) (int, error) {
	child, pos := pdag.Lit(edge)
	ref, err := buildNode(d, p, child, memo)
	if err != nil {
		return 0, err
	}
	if !pos {
		ref = Not(ref)
	}
	return ref, nil
}

func buildGate(d *Diagram, p *pdag.Pdag, idx int, memo map[int]int) (int, error) {
	args := p.Args(idx)
	refs := make([]int, len(args))
	for i, e := range args {
		r, err := childRef(d, p, e, memo)
		if err != nil {
			return 0, err
		}
		refs[i] = r
	}

	switch p.Connective(idx) {
	case pdag.AND:
		return foldBinary(d.And, refs, TrueRef), nil
	case pdag.OR:
		return foldBinary(d.Or, refs, FalseRef), nil
	case pdag.XOR:
		return foldBinary(d.Xor, refs, FalseRef), nil
	case pdag.NAND:
		return Not(foldBinary(d.And, refs, TrueRef)), nil
	case pdag.NOR:
		return Not(foldBinary(d.Or, refs, FalseRef)), nil
	case pdag.NOT:
		return Not(refs[0]), nil
	case pdag.NULLOp:
		return refs[0], nil
	case pdag.ATLEAST:
		return atLeast(d, p.Threshold(idx), refs), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedConnective, p.Connective(idx))
	}
}

func foldBinary(op func(a, b int) int, refs []int, identity int) int {
	acc := identity
	for i, r := range refs {
		if i == 0 {
			acc = r
			continue
		}
		acc = op(acc, r)
	}
	return acc
}

// atLeast builds the symmetric "at least k of refs" function as an OR
// over AND-conjunctions of every k-subset, the same combinatorial
// expansion preprocess.expandAtleastAndXor uses, reused here for
// targets (BDD) that skip structural normalization.
func atLeast(d *Diagram, k int, refs []int) int {
	n := len(refs)
	result := FalseRef
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		conj := TrueRef
		for _, i := range idx {
			conj = d.And(conj, refs[i])
		}
		result = d.Or(result, conj)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return result
}
