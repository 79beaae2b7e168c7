// Package preprocess rewrites a pdag.Pdag in place through the
// normalization pipeline required before qualitative analysis (spec
// §4.2): null absorption, algebraic cleanup, ATLEAST/XOR expansion,
// negation-normal-form push, and a final coalescing pass, parametrized
// by a compilation level in [0, 8].
package preprocess

import "errors"

// Sentinel errors for preprocessing.
var (
	// ErrUnsupportedTarget indicates PreprocessFor was asked to prepare a
	// PDAG for a Target it does not recognize.
	ErrUnsupportedTarget = errors.New("preprocess: unsupported target")

	// ErrPostCondition indicates the pipeline completed but the resulting
	// PDAG does not satisfy the target algorithm's required shape (spec
	// §4.2 post-condition table) — an internal inconsistency, never an
	// input-caused error (those are rejected earlier, at model validation).
	ErrPostCondition = errors.New("preprocess: post-condition violated")

	// ErrLevel indicates a compilation level outside [0, 8] was requested.
	ErrLevel = errors.New("preprocess: compilation level must be in [0, 8]")
)
