package pdag_test

import (
	"fmt"

	"github.com/scram-go/scram/bdd"
	"github.com/scram-go/scram/expr"
	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/pdag"
	"github.com/scram-go/scram/preprocess"
)

// ExampleBuild constructs a PDAG for TOP = A OR B directly from a MEF
// gate, preprocesses it for the BDD backend, and evaluates P(TOP) —
// spec.md scenario E2 (P(A)=0.01, P(B)=0.02).
func ExampleBuild() {
	m := mef.NewModel("two-component-or")
	a := &mef.BasicEvent{Name: "A", Expression: expr.NewConstant(0.01)}
	b := &mef.BasicEvent{Name: "B", Expression: expr.NewConstant(0.02)}
	_ = m.AddBasicEvent(a)
	_ = m.AddBasicEvent(b)
	top := &mef.Gate{Name: "TOP", Formula: mef.Formula{Connective: mef.OR, Args: []mef.Arg{{Event: a}, {Event: b}}}}
	_ = m.AddGate(top)

	p, err := pdag.Build(top, pdag.BuildOptions{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := preprocess.PreprocessFor(p, preprocess.TargetBDD); err != nil {
		fmt.Println("error:", err)
		return
	}

	diagram, root, err := bdd.Build(p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	pVars := map[int]float64{}
	for _, idx := range p.Variables() {
		be, _ := m.BasicEvent(p.VariableName(idx))
		pVars[p.VarOrder(idx)] = be.Expression.Value()
	}

	fmt.Printf("%.4f\n", diagram.Probability(root, pVars))

	// Output:
	// 0.0298
}
