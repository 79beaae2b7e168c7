package preprocess_test

import (
	"testing"

	"github.com/scram-go/scram/expr"
	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/pdag"
	"github.com/scram-go/scram/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicPdag(t *testing.T, conn mef.Connective) *pdag.Pdag {
	t.Helper()
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: conn, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)
	return p
}

func TestPreprocessForMocusAndOr(t *testing.T) {
	p := basicPdag(t, mef.AND)
	require.NoError(t, preprocess.PreprocessFor(p, preprocess.TargetMOCUS))
	assert.Equal(t, pdag.AND, p.Connective(p.Root()))
	for _, e := range p.Args(p.Root()) {
		_, pos := pdag.Lit(e)
		assert.True(t, pos)
	}
}

func TestPreprocessExpandsXorToOr(t *testing.T) {
	p := basicPdag(t, mef.XOR)
	// XOR's AND/OR expansion carries negative literals, which the
	// positive-only MOCUS post-condition of PreprocessFor rejects, so the
	// full level-8 pipeline is run directly.
	require.NoError(t, preprocess.Run(p, 8))
	assert.Equal(t, pdag.OR, p.Connective(p.Root()))
}

func TestPreprocessExpandsAtleast(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	c := &mef.BasicEvent{Name: "C", Expression: expr.NewConstant(0.3)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.ATLEAST, K: 2, Args: []mef.Arg{{Event: a}, {Event: b}, {Event: c}}}}
	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)

	require.NoError(t, preprocess.PreprocessFor(p, preprocess.TargetMOCUS))
	assert.Equal(t, pdag.OR, p.Connective(p.Root()))
	// 2-of-3 expands into C(3,2) = 3 AND-conjunctions.
	assert.Len(t, p.Args(p.Root()), 3)
}

func TestPreprocessPushesNegationToLeaves(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	c := &mef.BasicEvent{Name: "C", Expression: expr.NewConstant(0.3)}
	inner := &mef.Gate{Name: "INNER", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.OR, Args: []mef.Arg{{Event: inner, Complement: true}, {Event: c}}}}
	p, err := pdag.Build(top, pdag.BuildOptions{})
	require.NoError(t, err)

	// NOT(A AND B) OR C is non-coherent, so the positive-only MOCUS
	// post-condition of PreprocessFor rejects it; run level 8 directly and
	// check that no negative edge still points at a gate.
	require.NoError(t, preprocess.Run(p, 8))
	for _, g := range p.Gates() {
		for _, e := range p.Args(g) {
			child, pos := pdag.Lit(e)
			assert.True(t, pos || !p.IsGate(child), "NNF leaves negations on variables only")
		}
	}
}

func TestPreprocessForBddKeepsComplementEdges(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a, Complement: true}, {Event: b}}}}
	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)

	require.NoError(t, preprocess.PreprocessFor(p, preprocess.TargetBDD))
	for _, v := range p.Variables() {
		assert.GreaterOrEqual(t, p.VarOrder(v), 0)
	}
	negA := false
	for _, e := range p.Args(p.Root()) {
		child, pos := pdag.Lit(e)
		if !pos && p.IsVariable(child) && p.VariableName(child) == "A" {
			negA = true
		}
	}
	assert.True(t, negA, "the complemented edge to A survives BDD preprocessing")
}

func TestPreprocessSplicesNullGate(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	null := &mef.Gate{Name: "N", Formula: mef.Formula{Connective: mef.NULLOp, Args: []mef.Arg{{Event: a}}}}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: null}, {Event: b}}}}
	p, err := pdag.Build(top, pdag.BuildOptions{})
	require.NoError(t, err)

	require.NoError(t, preprocess.Run(p, 1))
	// P1 rewires every parent past the NULL gate; the spliced gate itself
	// stays in the append-only arena, unreachable from the root.
	for _, g := range p.PostOrder() {
		assert.NotEqual(t, pdag.NULLOp, p.Connective(g))
	}
}

func TestPreprocessRejectsBadLevel(t *testing.T) {
	p := basicPdag(t, mef.AND)
	require.ErrorIs(t, preprocess.Run(p, 9), preprocess.ErrLevel)
}

// evalNode recursively evaluates idx's Boolean value under assign,
// honoring signed edge polarity, used to check that pushNNF's De Morgan
// rewrites preserve truth-table semantics rather than just checking
// the resulting node shape.
func evalNode(p *pdag.Pdag, idx int, assign map[string]bool) bool {
	switch {
	case p.IsConstant(idx):
		return true
	case p.IsVariable(idx):
		return assign[p.VariableName(idx)]
	default:
		vals := make([]bool, 0, len(p.Args(idx)))
		for _, e := range p.Args(idx) {
			child, pos := pdag.Lit(e)
			v := evalNode(p, child, assign)
			if !pos {
				v = !v
			}
			vals = append(vals, v)
		}
		switch p.Connective(idx) {
		case pdag.AND:
			for _, v := range vals {
				if !v {
					return false
				}
			}
			return true
		case pdag.OR:
			for _, v := range vals {
				if v {
					return true
				}
			}
			return false
		case pdag.NAND:
			for _, v := range vals {
				if !v {
					return true
				}
			}
			return false
		case pdag.NOR:
			for _, v := range vals {
				if v {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
}

func evalRoot(p *pdag.Pdag, assign map[string]bool) bool {
	v := evalNode(p, p.Root(), assign)
	if p.Complement {
		v = !v
	}
	return v
}

// TestPushNNFFoldsNandToOrOfNegatedArgs exercises the P4 NAND/NOR
// cleanup directly (full level 8, bypassing PreprocessFor's
// coherent-only MOCUS/ZBDD post-condition, since NAND is inherently
// non-coherent) and checks the resulting AND/OR-only PDAG still
// computes NAND's truth table, not just that it lost its NAND shape.
func TestPushNNFFoldsNandToOrOfNegatedArgs(t *testing.T) {
	p := basicPdag(t, mef.NAND)
	require.NoError(t, preprocess.Run(p, 8))
	assert.Equal(t, pdag.OR, p.Connective(p.Root()), "NAND(args) == OR(NOT args) by De Morgan")
	for _, av := range []bool{false, true} {
		for _, bv := range []bool{false, true} {
			assign := map[string]bool{"A": av, "B": bv}
			want := !(av && bv)
			assert.Equal(t, want, evalRoot(p, assign), "A=%v B=%v", av, bv)
		}
	}
}

func TestPushNNFFoldsNorToAndOfNegatedArgs(t *testing.T) {
	p := basicPdag(t, mef.NOR)
	require.NoError(t, preprocess.Run(p, 8))
	assert.Equal(t, pdag.AND, p.Connective(p.Root()), "NOR(args) == AND(NOT args) by De Morgan")
	for _, av := range []bool{false, true} {
		for _, bv := range []bool{false, true} {
			assign := map[string]bool{"A": av, "B": bv}
			want := !(av || bv)
			assert.Equal(t, want, evalRoot(p, assign), "A=%v B=%v", av, bv)
		}
	}
}
