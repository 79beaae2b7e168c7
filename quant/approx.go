package quant

import "github.com/rs/zerolog/log"

// RareEvent approximates p_total as the sum of independent product
// probabilities, clamped to 1 (spec §4.4.1). It over-estimates when
// products overlap significantly, which is flagged with a zerolog
// warning whenever the clamp actually triggers.
type RareEvent struct {
	Products [][]int
}

func (c RareEvent) Total(pVars map[int]float64) (float64, error) {
	if len(c.Products) == 0 {
		return 0, ErrNoProducts
	}
	return rareEventSum(c.Products, pVars), nil
}

func (c RareEvent) Cond(pVars map[int]float64, v int, state bool) (float64, error) {
	return rareEventSum(c.Products, withOverride(pVars, v, state)), nil
}

func rareEventSum(products [][]int, pVars map[int]float64) float64 {
	sum := 0.0
	for _, pr := range products {
		sum += productTerm(pr, pVars)
	}
	if sum > 1 {
		log.Warn().Float64("raw_sum", sum).Msg("quant: rare-event approximation clamped to 1")
		return 1
	}
	return sum
}

// MCUB (min-cut upper bound) treats products as independent events and
// computes the probability that at least one fires: 1 - Π(1 - P(π))
// (spec §4.4.1). It never needs clamping: the formula is bounded in
// [0,1] by construction.
type MCUB struct {
	Products [][]int
}

func (c MCUB) Total(pVars map[int]float64) (float64, error) {
	if len(c.Products) == 0 {
		return 0, ErrNoProducts
	}
	return mcubTotal(c.Products, pVars), nil
}

func (c MCUB) Cond(pVars map[int]float64, v int, state bool) (float64, error) {
	return mcubTotal(c.Products, withOverride(pVars, v, state)), nil
}

func mcubTotal(products [][]int, pVars map[int]float64) float64 {
	complement := 1.0
	for _, pr := range products {
		complement *= 1 - productTerm(pr, pVars)
	}
	return 1 - complement
}

func productTerm(product []int, pVars map[int]float64) float64 {
	term := 1.0
	for _, v := range product {
		term *= pVars[v]
	}
	return term
}
