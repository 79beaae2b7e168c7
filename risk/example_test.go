package risk_test

import (
	"fmt"

	"github.com/scram-go/scram/expr"
	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/risk"
)

// ExampleOrchestrator_Analyze builds a two-component AND gate
// (TOP = A AND B, P(A)=0.01, P(B)=0.02) and runs the default BDD
// pipeline, matching spec.md scenario E1.
func ExampleOrchestrator_Analyze() {
	m := mef.NewModel("two-component-and")
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.01)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.02)}
	_ = m.AddBasicEvent(a)
	_ = m.AddBasicEvent(b)
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.AND, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	_ = m.AddGate(top)
	_, _ = m.NewFaultTree("ft", top)

	settings := risk.DefaultSettings()
	settings.ProbabilityAnalysis = true
	settings.ImportanceAnalysis = true

	o, err := risk.New(m, settings)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	results, err := o.Analyze()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("p_total=%.4f\n", results[0].Probability.PTotal)

	// Output:
	// p_total=0.0002
}
