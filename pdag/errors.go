// Package pdag implements the Boolean DAG normal form (spec §3.2): an
// arena of nodes addressed by small positive integers, with negation
// encoded by the sign of the edge rather than a distinct node.
package pdag

import "errors"

// Sentinel errors for PDAG construction and invariant checks.
var (
	// ErrBadIndex indicates an edge referenced a node index outside the
	// arena's populated range.
	ErrBadIndex = errors.New("pdag: edge indexes a non-existent node")

	// ErrArity indicates a gate's argument count violates its connective's
	// minimum (AND/OR >= 2, NOT/NULL == 1, ATLEAST(k) >= k+1).
	ErrArity = errors.New("pdag: invalid gate arity")

	// ErrSelfAncestor indicates a gate was found to be its own ancestor.
	ErrSelfAncestor = errors.New("pdag: gate is its own ancestor")

	// ErrVariableRange indicates the variable index range is not dense and
	// bijective with the analysis target's basic events.
	ErrVariableRange = errors.New("pdag: variable index range is not dense")

	// ErrUnknownEvent indicates the builder encountered a mef.Event type it
	// does not know how to fold into the PDAG (neither BasicEvent,
	// HouseEvent, nor Gate).
	ErrUnknownEvent = errors.New("pdag: unknown event type")
)
