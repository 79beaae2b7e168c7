// File: model.go
// Role: Model namespace — owns every named construct and guarantees
// uniqueness per kind (spec §3.1), the way core.Graph's vertices map
// guarantees unique vertex IDs within one Graph.
package mef

import (
	"fmt"

	"github.com/scram-go/scram/expr"
)

// Model is a named namespace owning every MEF construct. Each kind has
// its own registry so that, e.g., a Gate and a BasicEvent may share a
// name without conflict, matching the original engine's per-kind
// namespacing.
type Model struct {
	Name string

	// MissionTime is the shared Parameter proxy every time-dependent
	// Expression in this Model resolves against (spec §3.1). The
	// risk-analysis orchestrator mutates it when applying a Phase and
	// restores it on exit (spec §4.5, §5).
	MissionTime *expr.MissionTime

	basicEvents      map[string]*BasicEvent
	houseEvents      map[string]*HouseEvent
	gates            map[string]*Gate
	parameters       map[string]*Parameter
	ccfGroups        map[string]*CcfGroup
	faultTrees       map[string]*FaultTree
	eventTrees       map[string]*EventTree
	initiatingEvents map[string]*InitiatingEvent
	alignments       map[string]*Alignment
}

// NewModel returns an empty, named Model ready for registration, with
// MissionTime starting at zero hours.
func NewModel(name string) *Model {
	return &Model{
		Name:             name,
		MissionTime:      expr.NewMissionTime(0),
		basicEvents:      make(map[string]*BasicEvent),
		houseEvents:      make(map[string]*HouseEvent),
		gates:            make(map[string]*Gate),
		parameters:       make(map[string]*Parameter),
		ccfGroups:        make(map[string]*CcfGroup),
		faultTrees:       make(map[string]*FaultTree),
		eventTrees:       make(map[string]*EventTree),
		initiatingEvents: make(map[string]*InitiatingEvent),
		alignments:       make(map[string]*Alignment),
	}
}

// AddBasicEvent registers b under the BasicEvent namespace.
func (m *Model) AddBasicEvent(b *BasicEvent) error {
	if b.Name == "" {
		return ErrEmptyID
	}
	if _, exists := m.basicEvents[b.Name]; exists {
		return fmt.Errorf("mef: basic event %q: %w", b.Name, ErrDuplicateID)
	}
	m.basicEvents[b.Name] = b
	return nil
}

// BasicEvent looks up a registered BasicEvent by name.
func (m *Model) BasicEvent(name string) (*BasicEvent, bool) {
	b, ok := m.basicEvents[name]
	return b, ok
}

// AddHouseEvent registers h under the HouseEvent namespace.
func (m *Model) AddHouseEvent(h *HouseEvent) error {
	if h.Name == "" {
		return ErrEmptyID
	}
	if _, exists := m.houseEvents[h.Name]; exists {
		return fmt.Errorf("mef: house event %q: %w", h.Name, ErrDuplicateID)
	}
	m.houseEvents[h.Name] = h
	return nil
}

// HouseEvent looks up a registered HouseEvent by name.
func (m *Model) HouseEvent(name string) (*HouseEvent, bool) {
	h, ok := m.houseEvents[name]
	return h, ok
}

// AddGate registers g under the Gate namespace, after validating its
// Formula's arity (spec §3.1).
func (m *Model) AddGate(g *Gate) error {
	if g.Name == "" {
		return ErrEmptyID
	}
	if _, exists := m.gates[g.Name]; exists {
		return fmt.Errorf("mef: gate %q: %w", g.Name, ErrDuplicateID)
	}
	if err := g.Formula.Validate(); err != nil {
		return fmt.Errorf("mef: gate %q: %w", g.Name, err)
	}
	m.gates[g.Name] = g
	return nil
}

// Gate looks up a registered Gate by name.
func (m *Model) Gate(name string) (*Gate, bool) {
	g, ok := m.gates[name]
	return g, ok
}

// AddParameter registers p under the Parameter namespace.
func (m *Model) AddParameter(p *Parameter) error {
	if p.Name == "" {
		return ErrEmptyID
	}
	if _, exists := m.parameters[p.Name]; exists {
		return fmt.Errorf("mef: parameter %q: %w", p.Name, ErrDuplicateID)
	}
	m.parameters[p.Name] = p
	return nil
}

// AddCcfGroup registers c under the CcfGroup namespace after validating
// its minimum member count (spec §3.1, ErrCcfGroupTooSmall).
func (m *Model) AddCcfGroup(c *CcfGroup) error {
	if c.Name == "" {
		return ErrEmptyID
	}
	if _, exists := m.ccfGroups[c.Name]; exists {
		return fmt.Errorf("mef: ccf group %q: %w", c.Name, ErrDuplicateID)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	m.ccfGroups[c.Name] = c
	return nil
}

// NewFaultTree registers and returns a FaultTree with the given tops,
// validating that at least one top gate is present (spec §3.1).
func (m *Model) NewFaultTree(name string, tops ...*Gate) (*FaultTree, error) {
	if name == "" {
		return nil, ErrEmptyID
	}
	if _, exists := m.faultTrees[name]; exists {
		return nil, fmt.Errorf("mef: fault tree %q: %w", name, ErrDuplicateID)
	}
	if len(tops) == 0 {
		return nil, fmt.Errorf("mef: fault tree %q: %w", name, ErrEmptyFaultTree)
	}
	ft := &FaultTree{Name: name, Gates: make(map[string]*Gate), Tops: tops}
	for _, g := range tops {
		if err := CheckNoCycles(m, g); err != nil {
			return nil, err
		}
		collectGates(g, ft.Gates, make(map[string]bool))
	}
	m.faultTrees[name] = ft
	return ft, nil
}

func collectGates(g *Gate, into map[string]*Gate, seen map[string]bool) {
	if seen[g.Name] {
		return
	}
	seen[g.Name] = true
	into[g.Name] = g
	for _, a := range g.Formula.Args {
		if child, ok := a.Event.(*Gate); ok {
			collectGates(child, into, seen)
		}
	}
}

// AddEventTree registers an EventTree under its namespace.
func (m *Model) AddEventTree(et *EventTree) error {
	if et.Name == "" {
		return ErrEmptyID
	}
	if _, exists := m.eventTrees[et.Name]; exists {
		return fmt.Errorf("mef: event tree %q: %w", et.Name, ErrDuplicateID)
	}
	m.eventTrees[et.Name] = et
	return nil
}

// AddInitiatingEvent registers an InitiatingEvent under its namespace.
func (m *Model) AddInitiatingEvent(ie *InitiatingEvent) error {
	if ie.Name == "" {
		return ErrEmptyID
	}
	if _, exists := m.initiatingEvents[ie.Name]; exists {
		return fmt.Errorf("mef: initiating event %q: %w", ie.Name, ErrDuplicateID)
	}
	m.initiatingEvents[ie.Name] = ie
	return nil
}

// InitiatingEvents returns every registered InitiatingEvent, in
// insertion-stable order is not guaranteed by a map; callers that need a
// deterministic iteration order should sort by Name (spec §5 orders
// results by "iteration order of {alignments x phases x initiating
// events x sequences}" — risk.Orchestrator sorts explicitly).
func (m *Model) InitiatingEvents() map[string]*InitiatingEvent { return m.initiatingEvents }

// AddAlignment registers an Alignment under its namespace, after
// validating phase fractions sum to 1 (spec §3.1).
func (m *Model) AddAlignment(a *Alignment) error {
	if a.Name == "" {
		return ErrEmptyID
	}
	if _, exists := m.alignments[a.Name]; exists {
		return fmt.Errorf("mef: alignment %q: %w", a.Name, ErrDuplicateID)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	m.alignments[a.Name] = a
	return nil
}

// Alignments returns every registered Alignment.
func (m *Model) Alignments() map[string]*Alignment { return m.alignments }

// FaultTrees returns every registered FaultTree.
func (m *Model) FaultTrees() map[string]*FaultTree { return m.faultTrees }

// CheckNoCycles walks g's argument graph looking for a gate that is its
// own ancestor (spec §3.1 invariant, §3.2 "no gate is its own ancestor").
func CheckNoCycles(m *Model, g *Gate) error {
	white, gray := 0, 1
	state := make(map[string]int)
	var visit func(*Gate) error
	visit = func(cur *Gate) error {
		state[cur.Name] = gray
		for _, a := range cur.Formula.Args {
			child, ok := a.Event.(*Gate)
			if !ok {
				continue
			}
			switch state[child.Name] {
			case gray:
				return fmt.Errorf("mef: gate %q: %w", child.Name, ErrCycle)
			case white, 0:
				if err := visit(child); err != nil {
					return err
				}
			}
		}
		state[cur.Name] = 2 // black
		return nil
	}
	return visit(g)
}
