// Package mocus implements top-down module-based cut-set expansion
// (spec §4.3.1): a preprocessed, NNF PDAG is expanded module-by-module
// into a ZBDD of its minimal cut sets, applying limit_order and cut_off
// pruning as it goes.
package mocus

import "errors"

// ErrUnsupportedConnective indicates a gate connective survived
// preprocessing that MOCUS's NNF-only expansion does not handle
// (callers must run preprocess.PreprocessFor(p, preprocess.TargetMOCUS)
// first).
var ErrUnsupportedConnective = errors.New("mocus: unsupported gate connective")
