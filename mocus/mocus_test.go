package mocus_test

import (
	"testing"

	"github.com/scram-go/scram/expr"
	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/mocus"
	"github.com/scram-go/scram/pdag"
	"github.com/scram-go/scram/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAndOr(t *testing.T) *pdag.Pdag {
	t.Helper()
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	c := &mef.BasicEvent{Name: "C", Expression: expr.NewConstant(0.3)}
	andGate := &mef.Gate{Name: "AND1", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.OR, Args: []mef.Arg{{Event: andGate}, {Event: c}}}}
	p, err := pdag.Build(top, pdag.BuildOptions{})
	require.NoError(t, err)
	require.NoError(t, preprocess.PreprocessFor(p, preprocess.TargetMOCUS))
	return p
}

func TestExpandProducesExpectedCutSets(t *testing.T) {
	p := buildAndOr(t)
	f, root, err := mocus.Expand(p, mocus.Settings{})
	require.NoError(t, err)
	products := f.Enumerate(root)
	assert.Len(t, products, 2, "{A,B} and {C} are the two minimal cut sets")
	for _, prod := range products {
		assert.LessOrEqual(t, len(prod), 2)
	}
}

func TestExpandLimitOrderPrunesLargerSets(t *testing.T) {
	p := buildAndOr(t)
	f, root, err := mocus.Expand(p, mocus.Settings{LimitOrder: 1})
	require.NoError(t, err)
	products := f.Enumerate(root)
	assert.Len(t, products, 1, "only the single-variable cut set {C} survives limit_order=1")
}

func TestExpandRejectsNegativeLiteral(t *testing.T) {
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.1)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.2)}
	g := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a, Complement: true}, {Event: b}}}}
	p, err := pdag.Build(g, pdag.BuildOptions{})
	require.NoError(t, err)
	// Deliberately skip PreprocessFor(TargetMOCUS) to exercise the guard
	// against a non-NNF PDAG reaching Expand.
	require.NoError(t, preprocess.Run(p, 0))

	_, _, err = mocus.Expand(p, mocus.Settings{})
	require.ErrorIs(t, err, mocus.ErrUnsupportedConnective)
}
