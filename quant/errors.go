// Package quant implements probability, importance, and uncertainty
// analysis over a qualitative analysis result (spec §4.4): three
// interchangeable Calculator backends, a ProbabilityAnalyzer producing
// p_total / p(t) / SIL metrics, an ImportanceAnalyzer producing the
// standard per-basic-event sensitivity measures, and a Monte-Carlo
// UncertaintyAnalyzer.
package quant

import "errors"

// ErrNoProducts is returned by RareEvent/MCUB when constructed with an
// empty product list; such a calculator has nothing to sum over.
var ErrNoProducts = errors.New("quant: calculator has no products")

// ErrConditionalUnsupported is returned by Cond on a Calculator that
// does not implement Conditional.
var ErrConditionalUnsupported = errors.New("quant: calculator does not support conditioning")
