package quant

import "math"

// Importance holds the per-basic-event sensitivity measures (spec
// §4.4.3, §6.2).
type Importance struct {
	Variable   int
	Occurrence int
	Probability float64
	MIF        float64
	CIF        float64
	DIF        float64
	RAW        float64
	RRW        float64
}

// ImportanceAnalyzer computes the standard importance measures for
// every variable present in PVars, using Calculator.Cond to toggle each
// variable to certain-failure / certain-success in turn (spec §4.4.3).
// Products, when non-nil, supplies each variable's occurrence count;
// with a nil Products (BDD-only path with no materialized cut sets)
// occurrence is reported as 1 for every variable, per spec.
type ImportanceAnalyzer struct {
	Calculator Conditional
	PVars      map[int]float64
	PTotal     float64
	Products   [][]int
}

// NewImportanceAnalyzer constructs an analyzer over a Calculator that
// also implements Conditional, the already-computed p_total, and the
// p_vars map to iterate.
func NewImportanceAnalyzer(calc Conditional, pVars map[int]float64, pTotal float64, products [][]int) *ImportanceAnalyzer {
	return &ImportanceAnalyzer{Calculator: calc, PVars: pVars, PTotal: pTotal, Products: products}
}

// Run computes one Importance record per variable in a.PVars.
func (a *ImportanceAnalyzer) Run() ([]Importance, error) {
	occurrence := a.occurrenceCounts()
	out := make([]Importance, 0, len(a.PVars))
	for v, pv := range a.PVars {
		pOn, err := a.Calculator.Cond(a.PVars, v, true)
		if err != nil {
			return nil, err
		}
		pOff, err := a.Calculator.Cond(a.PVars, v, false)
		if err != nil {
			return nil, err
		}
		mif := pOn - pOff
		cif := 0.0
		if a.PTotal != 0 {
			cif = pv * mif / a.PTotal
		}
		dif := 0.0
		if a.PTotal != 0 {
			dif = pv * (1 - pOff/a.PTotal)
		}
		raw := 0.0
		if a.PTotal != 0 {
			raw = pOn / a.PTotal
		}
		rrw := math.MaxFloat64
		if pOff != 0 {
			rrw = a.PTotal / pOff
		}
		out = append(out, Importance{
			Variable:    v,
			Occurrence:  occurrence[v],
			Probability: pv,
			MIF:         mif,
			CIF:         cif,
			DIF:         dif,
			RAW:         raw,
			RRW:         rrw,
		})
	}
	return out, nil
}

func (a *ImportanceAnalyzer) occurrenceCounts() map[int]int {
	counts := make(map[int]int, len(a.PVars))
	if a.Products == nil {
		for v := range a.PVars {
			counts[v] = 1
		}
		return counts
	}
	for _, pr := range a.Products {
		for _, v := range pr {
			counts[v]++
		}
	}
	for v := range a.PVars {
		if _, ok := counts[v]; !ok {
			counts[v] = 0
		}
	}
	return counts
}
