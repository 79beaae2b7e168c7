package mef

import "github.com/scram-go/scram/expr"

// SetHouseEvent is a phase instruction: force a HouseEvent to a state for
// the duration of the phase.
type SetHouseEvent struct {
	Event *HouseEvent
	State bool
}

// Phase is one non-overlapping slice of [0, mission-time] within an
// Alignment, with its own house-event instructions (spec §3.1).
type Phase struct {
	Name         string
	TimeFraction float64
	Instructions []SetHouseEvent
}

// Validate enforces spec §3.1 ("time_fraction in (0, 1]").
func (p Phase) Validate() error {
	if p.TimeFraction <= 0 || p.TimeFraction > 1 {
		return ErrPhaseFraction
	}
	return nil
}

// Alignment partitions [0, mission-time] into Phases whose TimeFractions
// sum to 1.
type Alignment struct {
	Name   string
	Phases []*Phase
}

// Validate checks every phase individually and that fractions sum to 1
// (within floating-point tolerance), per spec §3.1.
func (a *Alignment) Validate() error {
	var sum float64
	for _, p := range a.Phases {
		if err := p.Validate(); err != nil {
			return err
		}
		sum += p.TimeFraction
	}
	const eps = 1e-9
	if sum < 1-eps || sum > 1+eps {
		return ErrPhaseFractionSum
	}
	return nil
}

// Instruction is one step of an event-tree branch path: collect an
// expression, collect a formula, or set a house event. Exactly one field
// is populated.
type Instruction struct {
	CollectExpression expr.Expression
	CollectFormula    *Formula
	SetHouse          *SetHouseEvent
}

// Sequence is a named end state of an event tree: the conjunction of
// branch literals encountered plus any collected instructions.
type Sequence struct {
	Name         string
	Instructions []Instruction
}

// EventTree is a named structure of functional-event branches terminating
// in Sequences; the branch-walking semantics are an external collaborator
// (spec §4.6) — this type only names the tree for InitiatingEvent to
// reference.
type EventTree struct {
	Name      string
	Sequences []*Sequence
}

// InitiatingEvent is a named trigger with an occurrence Frequency
// (events/hour) and an optional EventTree.
type InitiatingEvent struct {
	Name      string
	Frequency expr.Expression
	Tree      *EventTree
}
