// Package bdd implements a reduced-ordered binary decision diagram with
// complement edges (spec §3.3): Ite/Terminal vertices, a unique table
// for structural sharing, and a compute table memoizing Apply results.
package bdd

import "errors"

// ErrUnsupportedConnective indicates the PDAG being converted to a BDD
// contains a gate connective the converter does not know how to reduce.
// Build itself converts AND/OR/XOR/NAND/NOR/NOT/NULL/ATLEAST gates;
// preprocess.PreprocessFor(p, preprocess.TargetBDD) removes NULL gates
// from the root's reach and assigns the variable order Build needs.
var ErrUnsupportedConnective = errors.New("bdd: unsupported gate connective")
