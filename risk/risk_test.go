package risk_test

import (
	"testing"

	"github.com/scram-go/scram/expr"
	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoComponentModel(t *testing.T, connective mef.Connective, pa, pb float64) (*mef.Model, *mef.Gate) {
	t.Helper()
	m := mef.NewModel("m")
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(pa)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(pb)}
	require.NoError(t, m.AddBasicEvent(a))
	require.NoError(t, m.AddBasicEvent(b))
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: connective, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	require.NoError(t, m.AddGate(top))
	_, err := m.NewFaultTree("ft", top)
	require.NoError(t, err)
	return m, top
}

func TestTwoComponentAND(t *testing.T) {
	m, _ := twoComponentModel(t, mef.AND, 0.01, 0.02)

	s := risk.DefaultSettings()
	s.Algorithm = risk.MOCUS
	s.Approximation = risk.RareEvent
	s.ProbabilityAnalysis = true
	s.CutOff = 0
	o, err := risk.New(m, s)
	require.NoError(t, err)
	results, err := o.Analyze()
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Qualitative)
	require.Len(t, results[0].Qualitative.Products, 1)
	assert.Equal(t, []int{0, 1}, results[0].Qualitative.Products[0].Literals)
	assert.InDelta(t, 2e-4, results[0].Probability.PTotal, 1e-12)

	sBDD := risk.DefaultSettings()
	sBDD.ProbabilityAnalysis = true
	sBDD.ImportanceAnalysis = true
	oBDD, err := risk.New(m, sBDD)
	require.NoError(t, err)
	resBDD, err := oBDD.Analyze()
	require.NoError(t, err)
	require.Len(t, resBDD, 1)
	assert.InDelta(t, 2e-4, resBDD[0].Probability.PTotal, 1e-12)

	byName := map[string]risk.ImportanceRecord{}
	for _, imp := range resBDD[0].Importance {
		byName[imp.Name] = imp
	}
	assert.InDelta(t, 0.02, byName["A"].MIF, 1e-9)
	assert.InDelta(t, 0.01, byName["B"].MIF, 1e-9)
	assert.InDelta(t, 100.0, byName["A"].RAW, 1e-6)
}

func TestTwoComponentOR(t *testing.T) {
	m, _ := twoComponentModel(t, mef.OR, 0.01, 0.02)

	sBDD := risk.DefaultSettings()
	sBDD.ProbabilityAnalysis = true
	oBDD, err := risk.New(m, sBDD)
	require.NoError(t, err)
	resBDD, err := oBDD.Analyze()
	require.NoError(t, err)
	assert.InDelta(t, 0.0298, resBDD[0].Probability.PTotal, 1e-9)

	sMCUB := risk.DefaultSettings()
	sMCUB.Algorithm = risk.ZBDD
	sMCUB.Approximation = risk.MCUB
	sMCUB.ProbabilityAnalysis = true
	oMCUB, err := risk.New(m, sMCUB)
	require.NoError(t, err)
	resMCUB, err := oMCUB.Analyze()
	require.NoError(t, err)
	assert.InDelta(t, 0.0298, resMCUB[0].Probability.PTotal, 1e-9)

	sRE := risk.DefaultSettings()
	sRE.Algorithm = risk.ZBDD
	sRE.Approximation = risk.RareEvent
	sRE.ProbabilityAnalysis = true
	oRE, err := risk.New(m, sRE)
	require.NoError(t, err)
	resRE, err := oRE.Analyze()
	require.NoError(t, err)
	assert.InDelta(t, 0.03, resRE[0].Probability.PTotal, 1e-9)
}

func TestCutOffTruncation(t *testing.T) {
	m := mef.NewModel("m")
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(1e-3)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(1e-4)}
	c := &mef.BasicEvent{Name: "C", Expression: expr.NewConstant(1e-4)}
	require.NoError(t, m.AddBasicEvent(a))
	require.NoError(t, m.AddBasicEvent(b))
	require.NoError(t, m.AddBasicEvent(c))
	and := &mef.Gate{Name: "BC", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: b}, {Event: c}}}}
	require.NoError(t, m.AddGate(and))
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.OR, Args: []mef.Arg{{Event: a}, {Event: and}}}}
	require.NoError(t, m.AddGate(top))
	_, err := m.NewFaultTree("ft", top)
	require.NoError(t, err)

	s := risk.DefaultSettings()
	s.Algorithm = risk.MOCUS
	s.Approximation = risk.RareEvent
	s.ProbabilityAnalysis = true
	s.CutOff = 1e-5
	o, err := risk.New(m, s)
	require.NoError(t, err)
	results, err := o.Analyze()
	require.NoError(t, err)
	require.Len(t, results[0].Qualitative.Products, 1)
	assert.True(t, results[0].Qualitative.CutOffApplied)
	assert.Equal(t, 1e-5, results[0].Qualitative.AppliedCutOff)
	assert.InDelta(t, 1e-3, results[0].Probability.PTotal, 1e-12)
}

func TestNotViaDeMorgan(t *testing.T) {
	m := mef.NewModel("m")
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.5)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.5)}
	require.NoError(t, m.AddBasicEvent(a))
	require.NoError(t, m.AddBasicEvent(b))
	and := &mef.Gate{Name: "AB", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	require.NoError(t, m.AddGate(and))
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.NOT, Args: []mef.Arg{{Event: and}}}}
	require.NoError(t, m.AddGate(top))
	_, err := m.NewFaultTree("ft", top)
	require.NoError(t, err)

	s := risk.DefaultSettings()
	s.ProbabilityAnalysis = true
	o, err := risk.New(m, s)
	require.NoError(t, err)
	results, err := o.Analyze()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, results[0].Probability.PTotal, 1e-9)
}

func TestEventTreeSequenceScaling(t *testing.T) {
	m := mef.NewModel("m")
	x := &mef.BasicEvent{Name: "X", Expression: expr.NewConstant(0.1)}
	y := &mef.BasicEvent{Name: "Y", Expression: expr.NewConstant(0.1)}
	require.NoError(t, m.AddBasicEvent(x))
	require.NoError(t, m.AddBasicEvent(y))

	seq := &mef.Sequence{
		Name: "S1",
		Instructions: []mef.Instruction{
			{CollectFormula: &mef.Formula{Connective: mef.OR, Args: []mef.Arg{{Event: x}, {Event: y}}}},
		},
	}
	tree := &mef.EventTree{Name: "ET", Sequences: []*mef.Sequence{seq}}
	require.NoError(t, m.AddEventTree(tree))
	ie := &mef.InitiatingEvent{Name: "IE", Frequency: expr.NewConstant(1e-4), Tree: tree}
	require.NoError(t, m.AddInitiatingEvent(ie))

	s := risk.DefaultSettings()
	s.ProbabilityAnalysis = true
	o, err := risk.New(m, s)
	require.NoError(t, err)
	results, err := o.Analyze()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "IE", results[0].Target.InitiatingEvent)
	assert.Equal(t, "S1", results[0].Target.Sequence)
	assert.InDelta(t, 1e-4, results[0].Frequency, 1e-12)
	// PTotal already folds in the initiating event's frequency, so the
	// raw gate probability (0.19) only shows up scaled.
	assert.InDelta(t, 1.9e-5, results[0].Probability.PTotal, 1e-9)
}

func TestUncertaintyConvergesToInputMean(t *testing.T) {
	m := mef.NewModel("m")
	src := expr.NewSeededSource(42)
	dev, err := expr.NewLognormalFromMeanEF(src, 1e-3, 3, 0.95)
	require.NoError(t, err)
	a := &mef.BasicEvent{Name: "A", Expression: dev}
	require.NoError(t, m.AddBasicEvent(a))
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.NULLOp, Args: []mef.Arg{{Event: a}}}}
	require.NoError(t, m.AddGate(top))
	_, err = m.NewFaultTree("ft", top)
	require.NoError(t, err)

	s := risk.DefaultSettings()
	s.ProbabilityAnalysis = true
	s.UncertaintyAnalysis = true
	s.NumTrials = 10000
	s.NumQuantiles = 5
	s.Seed = 42
	o, err := risk.New(m, s)
	require.NoError(t, err)
	results, err := o.Analyze()
	require.NoError(t, err)
	require.NotNil(t, results[0].Uncertainty)
	assert.InEpsilon(t, 1e-3, results[0].Uncertainty.Mean, 0.05)
	require.Len(t, results[0].Uncertainty.Quantiles, 5)
}

func TestSettingsValidateRejectsMismatchedApproximation(t *testing.T) {
	s := risk.DefaultSettings()
	s.Algorithm = risk.MOCUS
	s.Approximation = risk.None
	err := s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, risk.ErrApproximationAlgorithmMismatch)
}

func TestSettingsValidateRejectsPrimeImplicantsWithoutBDD(t *testing.T) {
	s := risk.DefaultSettings()
	s.Algorithm = risk.MOCUS
	s.Approximation = risk.RareEvent
	s.PrimeImplicants = true
	err := s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, risk.ErrPrimeImplicantsRequiresBDD)
}
