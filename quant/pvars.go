package quant

import (
	"fmt"

	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/pdag"
)

// ExtractPVars builds the dense variable-order to point-probability map
// every Calculator consumes, reading each PDAG variable's current value
// straight off its backing BasicEvent's expression (spec §4.4.2
// "extracts p_vars[i] = BasicEvent_i.expression.value() ... at
// construction").
func ExtractPVars(p *pdag.Pdag, m *mef.Model) (map[int]float64, error) {
	pVars := make(map[int]float64)
	for _, idx := range p.Variables() {
		name := p.VariableName(idx)
		be, ok := m.BasicEvent(name)
		if !ok {
			return nil, fmt.Errorf("quant: variable %q has no backing basic event", name)
		}
		pVars[p.VarOrder(idx)] = be.Expression.Value()
	}
	return pVars, nil
}
