package pdag_test

import (
	"testing"

	"github.com/scram-go/scram/expr"
	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/pdag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoArgAndGate() *mef.Gate {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	return &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}, {Event: b}}}}
}

func TestBuildTwoArgAnd(t *testing.T) {
	g := twoArgAndGate()
	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)
	assert.True(t, p.IsGate(p.Root()))
	assert.Equal(t, pdag.AND, p.Connective(p.Root()))
	assert.Len(t, p.Args(p.Root()), 2)
	assert.Len(t, p.Variables(), 2)
}

func TestBuildSharesRepeatedGate(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	shared := &mef.Gate{Name: "SHARED", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.OR, Args: []mef.Arg{{Event: shared}, {Event: shared, Complement: true}}}}

	p, err := pdag.Build(top, pdag.BuildOptions{})
	require.NoError(t, err)
	args := p.Args(p.Root())
	require.Len(t, args, 2)
	i1, pos1 := pdag.Lit(args[0])
	i2, pos2 := pdag.Lit(args[1])
	assert.Equal(t, i1, i2, "the two references to SHARED must resolve to the same node")
	assert.True(t, pos1)
	assert.False(t, pos2)
}

func TestBuildRejectsCycle(t *testing.T) {
	g1 := &mef.Gate{Name: "G1"}
	g2 := &mef.Gate{Name: "G2"}
	g1.Formula = mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: g2}, {Event: g2}}}
	g2.Formula = mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: g1}, {Event: g1}}}

	_, err := pdag.Build(g1, pdag.BuildOptions{})
	require.ErrorIs(t, err, pdag.ErrSelfAncestor)
}

func TestBuildFoldsHouseEvent(t *testing.T) {
	h := &mef.HouseEvent{Name: "H", State: true}
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: h}, {Event: a}}}}

	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)
	args := p.Args(p.Root())
	idx0, pos0 := pdag.Lit(args[0])
	assert.True(t, p.IsConstant(idx0))
	assert.True(t, pos0)
	assert.True(t, p.HasConstants)
}

func TestBuildHouseStateOverride(t *testing.T) {
	h := &mef.HouseEvent{Name: "H", State: true}
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: h}, {Event: a}}}}

	p, err := pdag.Build(g, pdag.BuildOptions{
		HouseState: func(name string) (bool, bool) {
			if name == "H" {
				return false, true
			}
			return false, false
		},
	})
	require.NoError(t, err)
	args := p.Args(p.Root())
	_, pos0 := pdag.Lit(args[0])
	assert.False(t, pos0, "override to false must flip the constant's edge polarity")
}

func TestBuildRejectsBadArity(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}}}}
	_, err := pdag.Build(g, pdag.BuildOptions{})
	require.ErrorIs(t, err, pdag.ErrArity)
}

// evalNode recursively evaluates idx's Boolean value under assign,
// honoring signed edge polarity, so the De Morgan-folded connectives
// (IFF, IMPLY, CARDINALITY) can be checked against their truth tables
// rather than just their node shape.
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
		case pdag.XOR:
			count := 0
			for _, v := range vals {
				if v {
					count++
				}
			}
			return count%2 == 1
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
		case pdag.NOT:
			return !vals[0]
		case pdag.NULLOp:
			return vals[0]
		case pdag.ATLEAST:
			count := 0
			for _, v := range vals {
				if v {
					count++
				}
			}
			return count >= p.Threshold(idx)
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

func TestBuildIffMatchesTruthTable(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.IFF, Args: []mef.Arg{{Event: a}, {Event: b}}}}

	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)

	for _, av := range []bool{false, true} {
		for _, bv := range []bool{false, true} {
			assign := map[string]bool{"A": av, "B": bv}
			want := av == bv
			assert.Equal(t, want, evalRoot(p, assign), "A=%v B=%v", av, bv)
		}
	}
}

func TestBuildImplyMatchesTruthTable(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.IMPLY, Args: []mef.Arg{{Event: a}, {Event: b}}}}

	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)

	for _, av := range []bool{false, true} {
		for _, bv := range []bool{false, true} {
			assign := map[string]bool{"A": av, "B": bv}
			want := !av || bv
			assert.Equal(t, want, evalRoot(p, assign), "A=%v B=%v", av, bv)
		}
	}
}

func TestBuildCardinalityMatchesTruthTable(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.1)}
	c := &mef.BasicEvent{Name: "C", Expression: expr.NewConstant(0.1)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{
		Connective: mef.CARDINALITY,
		Args:       []mef.Arg{{Event: a}, {Event: b}, {Event: c}},
		L:          1,
		H:          1,
	}}

	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)

	for _, av := range []bool{false, true} {
		for _, bv := range []bool{false, true} {
			for _, cv := range []bool{false, true} {
				assign := map[string]bool{"A": av, "B": bv, "C": cv}
				count := 0
				for _, v := range []bool{av, bv, cv} {
					if v {
						count++
					}
				}
				want := count == 1
				assert.Equal(t, want, evalRoot(p, assign), "A=%v B=%v C=%v", av, bv, cv)
			}
		}
	}
}

func TestBuildExpandsCcfGroup(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.01)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.01)}
	ccf := &mef.CcfGroup{
		Name:    "PUMPS",
		Model:   mef.BetaFactor,
		Members: []*mef.BasicEvent{a, b},
		Factors: []expr.Expression{expr.NewConstant(0.05)},
	}
	a.CcfGroup = ccf
	b.CcfGroup = ccf

	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)

	idxA, _ := pdag.Lit(p.Args(p.Root())[0])
	assert.True(t, p.IsGate(idxA), "a CCF member folds to an OR-gate over its independent and common-cause terms")
	assert.Equal(t, pdag.OR, p.Connective(idxA))
}
