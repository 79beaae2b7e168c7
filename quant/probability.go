package quant

import (
	"math"

	"github.com/scram-go/scram/expr"
)

// PFDBuckets and PFHBuckets are the fixed SIL histogram bucket upper
// bounds (spec §4.4.2, boundaries resolved in SPEC_FULL.md / DESIGN.md
// against original_source's IEC-61508-style banding).
var (
	PFDBuckets = [6]float64{1e-5, 1e-4, 1e-3, 1e-2, 1e-1, 1}
	PFHBuckets = [6]float64{1e-9, 1e-7, 1e-6, 1e-5, 1e-4, 1}
)

// TimePoint is one sample of the p(t) curve.
type TimePoint struct {
	T float64
	P float64
}

// Sil holds the time-averaged safety-integrity-level metrics (spec
// §4.4.2, §6.2).
type Sil struct {
	PFDAvg       float64
	PFHAvg       float64
	PFDHistogram [6]int
	PFHHistogram [6]int
}

// ProbabilityAnalyzer runs a Calculator once against the current
// p_vars, and optionally samples a p(t) curve plus SIL metrics when a
// mission time and a non-zero time step are supplied.
type ProbabilityAnalyzer struct {
	Calculator Calculator
	PVars      map[int]float64

	PTotal float64
	Curve  []TimePoint
	SIL    *Sil
}

// NewProbabilityAnalyzer constructs an analyzer over the given
// Calculator and p_vars map (typically from ExtractPVars).
func NewProbabilityAnalyzer(calc Calculator, pVars map[int]float64) *ProbabilityAnalyzer {
	return &ProbabilityAnalyzer{Calculator: calc, PVars: pVars}
}

// Run evaluates p_total once at the current p_vars.
func (a *ProbabilityAnalyzer) Run() error {
	total, err := a.Calculator.Total(a.PVars)
	if err != nil {
		return err
	}
	a.PTotal = total
	return nil
}

// RunCurve samples p(t) at {0, step, 2*step, ..., missionTime} by
// advancing mt and re-reading each variable's backing expression
// (resample) before each Calculator.Total call, then (if sil is true)
// derives the time-averaged PFD/PFH metrics and their fixed-bucket
// histograms (spec §4.4.2).
//
// resample is called once per time step, after mt.Set(t), and must
// return a fresh p_vars map reflecting the updated expression values —
// this is the caller's (risk package's) re-read of BasicEvent
// expressions, since quant does not own the MEF model.
func (a *ProbabilityAnalyzer) RunCurve(mt *expr.MissionTime, step, missionTime float64, sil bool, resample func(t float64) (map[int]float64, error)) error {
	if step <= 0 {
		return nil
	}
	a.Curve = a.Curve[:0]
	var pfdSum, pfhSum float64
	var pfdHist, pfhHist [6]int
	n := 0
	for t := 0.0; t <= missionTime+1e-12; t += step {
		mt.Set(t)
		pv, err := resample(t)
		if err != nil {
			return err
		}
		p, err := a.Calculator.Total(pv)
		if err != nil {
			return err
		}
		a.Curve = append(a.Curve, TimePoint{T: t, P: p})
		pfdSum += p
		hazard := 0.0
		if p > 0 {
			hazard = -math.Log(1-p) / step
		}
		pfhSum += hazard
		bucketInto(&pfdHist, PFDBuckets, p)
		bucketInto(&pfhHist, PFHBuckets, hazard)
		n++
	}
	if sil && n > 0 {
		a.SIL = &Sil{
			PFDAvg:       pfdSum / float64(n),
			PFHAvg:       pfhSum / float64(n),
			PFDHistogram: pfdHist,
			PFHHistogram: pfhHist,
		}
	}
	return nil
}

// bucketInto drops val into the first bucket whose upper bound it does
// not exceed, or the last bucket otherwise.
func bucketInto(hist *[6]int, bounds [6]float64, val float64) {
	for i, b := range bounds {
		if val <= b {
			hist[i]++
			return
		}
	}
	hist[5]++
}
