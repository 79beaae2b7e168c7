package quant

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/scram-go/scram/expr"
)

// UncertaintyResult reports the Monte-Carlo summary statistics spec
// §4.4.4 / §6.2 requires.
type UncertaintyResult struct {
	Mean       float64
	Sigma      float64
	CI95       [2]float64
	EF95       float64
	Quantiles  []float64
	Histogram  []int
	BinLow     float64
	BinWidth   float64
}

// UncertaintyAnalyzer runs num_trials Monte-Carlo draws of p_total,
// resampling every deviate expression each trial (spec §4.4.4).
type UncertaintyAnalyzer struct {
	Calculator Calculator
	// Deviates maps a variable order to the expression that must be
	// Reset and Sample()d fresh each trial; PVars supplies the base
	// (non-deviate) values every trial starts from.
	Deviates map[int]expr.Expression
	PVars    map[int]float64

	NumTrials    int
	NumQuantiles int
	NumBins      int
}

// Run performs the configured number of trials and summarizes them.
func (a *UncertaintyAnalyzer) Run() (*UncertaintyResult, error) {
	samples := make([]float64, 0, a.NumTrials)
	trial := cloneFloatMap(a.PVars)

	progressEvery := a.NumTrials / 10
	if progressEvery == 0 {
		progressEvery = 1
	}

	for i := 0; i < a.NumTrials; i++ {
		for v, d := range a.Deviates {
			d.Reset()
			s := d.Sample()
			if s < 0 {
				s = 0
			} else if s > 1 {
				s = 1
			}
			trial[v] = s
		}
		p, err := a.Calculator.Total(trial)
		if err != nil {
			return nil, err
		}
		samples = append(samples, p)

		if (i+1)%progressEvery == 0 {
			log.Debug().
				Int("trial", i+1).
				Int("num_trials", a.NumTrials).
				Msg("quant: uncertainty analysis progress")
		}
	}

	return summarize(samples, a.NumQuantiles, a.NumBins), nil
}

func cloneFloatMap(m map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func summarize(samples []float64, numQuantiles, numBins int) *UncertaintyResult {
	n := len(samples)
	res := &UncertaintyResult{}
	if n == 0 {
		return res
	}

	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(n)

	var sqDiff float64
	for _, s := range samples {
		d := s - mean
		sqDiff += d * d
	}
	sigma := 0.0
	if n > 1 {
		sigma = math.Sqrt(sqDiff / float64(n-1))
	}

	res.Mean = mean
	res.Sigma = sigma
	halfWidth := 1.96 * sigma / math.Sqrt(float64(n))
	res.CI95 = [2]float64{mean - halfWidth, mean + halfWidth}
	res.EF95 = math.Exp(1.96 * sigma)

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	if numQuantiles > 0 {
		res.Quantiles = make([]float64, numQuantiles)
		for i := 0; i < numQuantiles; i++ {
			frac := float64(i+1) / float64(numQuantiles)
			idx := int(frac*float64(n)) - 1
			if idx < 0 {
				idx = 0
			}
			if idx >= n {
				idx = n - 1
			}
			res.Quantiles[i] = sorted[idx]
		}
	}

	if numBins > 0 {
		lo, hi := sorted[0], sorted[n-1]
		width := (hi - lo) / float64(numBins)
		res.BinLow = lo
		res.BinWidth = width
		res.Histogram = make([]int, numBins)
		if width == 0 {
			res.Histogram[0] = n
		} else {
			for _, s := range samples {
				bin := int((s - lo) / width)
				if bin >= numBins {
					bin = numBins - 1
				}
				if bin < 0 {
					bin = 0
				}
				res.Histogram[bin]++
			}
		}
	}

	return res
}
