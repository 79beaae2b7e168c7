// Package mef defines the model-element-framework-level entities consumed
// by the analytical core: events, gates, formulas, CCF groups, fault
// trees, event trees, alignments/phases, and the Model namespace that owns
// them all. The loader that produces a validated Model (XML parsing,
// schema conformance) is an external collaborator (spec §6.1); this
// package only defines the object shapes and the validation invariants
// that must hold before a Model is handed to the PDAG builder.
package mef

import "errors"

// Sentinel errors for model-level validation (spec §7, ValidityError class).
var (
	// ErrEmptyID indicates an event/gate/parameter was registered with an
	// empty name.
	ErrEmptyID = errors.New("mef: empty id")

	// ErrDuplicateID indicates two constructs of the same kind share a name
	// within one Model.
	ErrDuplicateID = errors.New("mef: duplicate id")

	// ErrUnknownEvent indicates a Formula argument references an event not
	// registered in the Model.
	ErrUnknownEvent = errors.New("mef: unknown event")

	// ErrCycle indicates a cycle was found in the gate-argument graph.
	ErrCycle = errors.New("mef: cycle detected in gate arguments")

	// ErrArity indicates a Formula has the wrong number of arguments for
	// its connective (e.g. AND/OR with < 2 args, NOT/NULL with != 1 arg).
	ErrArity = errors.New("mef: invalid formula arity")

	// ErrEmptyFaultTree indicates a FaultTree was registered with no top
	// gates.
	ErrEmptyFaultTree = errors.New("mef: fault tree has no top gates")

	// ErrCcfGroupTooSmall indicates a CcfGroup was given fewer than two
	// member basic events.
	ErrCcfGroupTooSmall = errors.New("mef: ccf group needs at least two members")

	// ErrPhaseFractionSum indicates an Alignment's phase time fractions do
	// not sum to 1.
	ErrPhaseFractionSum = errors.New("mef: alignment phase fractions must sum to 1")

	// ErrPhaseFraction indicates a Phase's time_fraction is outside (0, 1].
	ErrPhaseFraction = errors.New("mef: phase time_fraction must be in (0, 1]")
)
