package bdd_test

import (
	"testing"

	"github.com/scram-go/scram/bdd"
	"github.com/scram-go/scram/expr"
	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/pdag"
	"github.com/scram-go/scram/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTwoArgAndBdd(t *testing.T) (*bdd.Diagram, int, map[int]float64, *pdag.Pdag) {
	t.Helper()
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)
	require.NoError(t, preprocess.PreprocessFor(p, preprocess.TargetBDD))

	d, root, err := bdd.Build(p)
	require.NoError(t, err)

	pVars := map[int]float64{}
	for _, v := range p.Variables() {
		switch p.VariableName(v) {
		case "A":
			pVars[p.VarOrder(v)] = 0.1
		case "B":
			pVars[p.VarOrder(v)] = 0.2
		}
	}
	return d, root, pVars, p
}

func TestBddAndProbability(t *testing.T) {
	d, root, pVars, _ := buildTwoArgAndBdd(t)
	got := d.Probability(root, pVars)
	assert.InDelta(t, 0.02, got, 1e-9)
}

func TestBddNotIsSignFlipNoAlloc(t *testing.T) {
	d, root, _, _ := buildTwoArgAndBdd(t)
	before := d.Len()
	neg := bdd.Not(root)
	assert.Equal(t, -root, neg)
	assert.Equal(t, before, d.Len(), "Not must not allocate a new node")
}

func TestBddOrProbability(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.OR, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)
	require.NoError(t, preprocess.PreprocessFor(p, preprocess.TargetBDD))

	d, root, err := bdd.Build(p)
	require.NoError(t, err)

	pVars := map[int]float64{}
	for _, v := range p.Variables() {
		switch p.VariableName(v) {
		case "A":
			pVars[p.VarOrder(v)] = 0.1
		case "B":
			pVars[p.VarOrder(v)] = 0.2
		}
	}
	got := d.Probability(root, pVars)
	assert.InDelta(t, 0.28, got, 1e-9) // 1-(1-0.1)(1-0.2)
}

func TestBddDeMorganIdentity(t *testing.T) {
	d := bdd.NewDiagram()
	v0 := d.Variable(0)
	v1 := d.Variable(1)
	and := d.And(v0, v1)
	or := d.Or(bdd.Not(v0), bdd.Not(v1))
	assert.Equal(t, bdd.Not(and), or, "NOT(a AND b) must equal (NOT a) OR (NOT b)")
}
