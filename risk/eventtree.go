package risk

import (
	"fmt"

	"github.com/scram-go/scram/mef"
)

// DefaultEventTreeAnalyzer synthesizes one SequenceResult per Sequence
// of ie.Tree by folding its flattened Instructions list (spec §4.6): a
// CollectFormula contributes a conjunct to a synthesized top gate, a
// CollectExpression contributes a factor to ExpressionValue, and a
// SetHouse instruction is recorded for scoped application during
// analysis rather than applied here.
type DefaultEventTreeAnalyzer struct{}

// Analyze returns one SequenceResult per sequence in ie.Tree, or
// ErrNoEventTree if ie has none.
func (DefaultEventTreeAnalyzer) Analyze(ie *mef.InitiatingEvent) ([]SequenceResult, error) {
	if ie.Tree == nil {
		return nil, fmt.Errorf("risk: initiating event %q: %w", ie.Name, ErrNoEventTree)
	}
	out := make([]SequenceResult, 0, len(ie.Tree.Sequences))
	for _, seq := range ie.Tree.Sequences {
		sr, err := synthesizeSequence(ie.Name, seq)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, nil
}

func synthesizeSequence(ieName string, seq *mef.Sequence) (SequenceResult, error) {
	sr := SequenceResult{InitiatingEvent: ieName, Sequence: seq.Name, ExpressionValue: 1.0}

	var formulaArgs []mef.Arg
	for _, inst := range seq.Instructions {
		switch {
		case inst.CollectFormula != nil:
			formulaArgs = append(formulaArgs, mef.Arg{Event: &mef.Gate{
				Name:    fmt.Sprintf("%s/%s#%d", ieName, seq.Name, len(formulaArgs)),
				Formula: *inst.CollectFormula,
			}})
		case inst.CollectExpression != nil:
			sr.HasExpression = true
			sr.ExpressionValue *= inst.CollectExpression.Value()
		case inst.SetHouse != nil:
			sr.HouseInstructions = append(sr.HouseInstructions, *inst.SetHouse)
		}
	}

	if len(formulaArgs) == 0 {
		return sr, nil
	}
	if len(formulaArgs) == 1 {
		sr.Gate = formulaArgs[0].Event.(*mef.Gate)
		return sr, nil
	}
	sr.Gate = &mef.Gate{
		Name:    fmt.Sprintf("%s/%s#top", ieName, seq.Name),
		Formula: mef.Formula{Connective: mef.AND, Args: formulaArgs},
	}
	return sr, nil
}
