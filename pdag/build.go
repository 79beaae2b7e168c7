package pdag

import (
	"fmt"

	"github.com/scram-go/scram/mef"
)

// BuildOptions parametrizes Build. HouseState overrides a
// HouseEvent's registered State — the risk orchestrator supplies a
// closure reading the currently-applied Phase's instructions (spec
// §4.5); a nil HouseState falls back to each HouseEvent's own State.
type BuildOptions struct {
	HouseState func(name string) (state bool, override bool)
}

// builder holds the memoization tables that give a PDAG its DAG sharing
// (spec §3.2: gates and variables referenced from more than one parent
// are a single node, not duplicated), grounded in core.Graph's
// vertices map — one entry per unique ID regardless of in-degree.
type builder struct {
	p    *Pdag
	opts BuildOptions

	gateIdx   map[string]int // mef.Gate.Name -> node index, for sharing + cycle guard
	inProg    map[string]bool
	varIdx    map[string]int // mef.BasicEvent.Name -> Variable node index
	ccfIdx    map[string]int // "<group>.<member>" -> derived OR-gate index
	ccfGroups map[string]*mef.CcfGroup
}

// Build constructs a Pdag rooted at root, expanding CCF group members
// into their derived sub-gates and folding HouseEvents to constants
// (spec §3.2 lifecycle: "a PDAG is created from a root Gate of the MEF
// model").
func Build(root *mef.Gate, opts BuildOptions) (*Pdag, error) {
	b := &builder{
		p:       newArena(),
		opts:    opts,
		gateIdx: make(map[string]int),
		inProg:  make(map[string]bool),
		varIdx:  make(map[string]int),
		ccfIdx:  make(map[string]int),
	}
	rootIdx, err := b.gate(root)
	if err != nil {
		return nil, err
	}
	b.p.root = rootIdx
	b.p.variableStart = 1
	b.assignVariableStart()
	if err := b.p.checkInvariants(); err != nil {
		return nil, err
	}
	return b.p, nil
}

// assignVariableStart renumbers nothing (indices are immutable once
// allocated); it instead records the lowest Variable index actually
// present, since variables and gates are interleaved in allocation
// order by the post-order walk.
func (b *builder) assignVariableStart() {
	min := -1
	for i := 1; i < len(b.p.nodes); i++ {
		if b.p.nodes[i].k == kVariable {
			if min == -1 || i < min {
				min = i
			}
		}
	}
	if min != -1 {
		b.p.variableStart = min
	}
}

// gate returns the node index for g, building it (and its arguments,
// post-order) on first visit and reusing the cached index thereafter.
func (b *builder) gate(g *mef.Gate) (int, error) {
	if idx, ok := b.gateIdx[g.Name]; ok {
		return idx, nil
	}
	if b.inProg[g.Name] {
		return 0, fmt.Errorf("pdag: gate %q: %w", g.Name, ErrSelfAncestor)
	}
	b.inProg[g.Name] = true

	args := make([]int, 0, len(g.Formula.Args))
	for _, a := range g.Formula.Args {
		lit, err := b.arg(a)
		if err != nil {
			return 0, err
		}
		args = append(args, lit)
	}

	idx, err := b.buildFormula(g.Formula, args, g.Name)
	if err != nil {
		return 0, err
	}
	b.gateIdx[g.Name] = idx
	b.p.gateOf[idx] = g.Name
	delete(b.inProg, g.Name)

	return idx, nil
}

// allocPlainGate allocates a single PDAG gate node of connective conn
// over args (already-signed child literals), validating arity and
// wiring parent back-references.
func (b *builder) allocPlainGate(conn Connective, k int, args []int, origin string) (int, error) {
	if err := checkArity(conn, k, len(args)); err != nil {
		return 0, fmt.Errorf("pdag: gate %q: %w", origin, err)
	}
	idx := b.p.alloc(node{k: kGate, conn: conn, k_: k, args: args, origin: origin})
	for _, e := range args {
		child, _ := Lit(e)
		b.p.nodes[child].parents[idx] = struct{}{}
	}
	return idx, nil
}

// buildAtLeastK builds an ATLEAST(k) gate over args, folding the
// trivial k==n case to a plain AND — spec §3.2 requires a genuine
// ATLEAST gate to have at least k+1 arguments, so "k of k" is
// represented as AND rather than as a degenerate ATLEAST node.
func (b *builder) buildAtLeastK(k int, args []int, origin string) (int, error) {
	if k >= len(args) {
		return b.allocPlainGate(AND, 0, args, origin)
	}
	return b.allocPlainGate(ATLEAST, k, args, origin)
}

// buildFormula allocates the PDAG node(s) implementing f's connective
// applied to args, folding mef's richer connective set (IFF, IMPLY,
// general CARDINALITY) down to the PDAG's reduced normal-form set via
// explicit De Morgan rewrites (spec §3.1) rather than approximating
// them with the wrong shape.
func (b *builder) buildFormula(f mef.Formula, args []int, origin string) (int, error) {
	switch f.Connective {
	case mef.AND:
		return b.allocPlainGate(AND, 0, args, origin)
	case mef.OR:
		return b.allocPlainGate(OR, 0, args, origin)
	case mef.XOR:
		return b.allocPlainGate(XOR, 0, args, origin)
	case mef.NAND:
		return b.allocPlainGate(NAND, 0, args, origin)
	case mef.NOR:
		return b.allocPlainGate(NOR, 0, args, origin)
	case mef.NOT:
		return b.allocPlainGate(NOT, 0, args, origin)
	case mef.NULLOp:
		return b.allocPlainGate(NULLOp, 0, args, origin)
	case mef.ATLEAST:
		return b.buildAtLeastK(f.K, args, origin)
	case mef.CARDINALITY:
		return b.buildCardinality(f.L, f.H, args, origin)
	case mef.IFF:
		// a IFF b == NOT(XOR(a,b)): an explicit NOT gate wraps the inner
		// XOR so the cached gate index for this mef.Gate carries the
		// correct (non-negated) IFF semantics — every caller of b.gate
		// treats the returned index as a positive reference.
		xor, err := b.allocPlainGate(XOR, 0, args, origin)
		if err != nil {
			return 0, err
		}
		return b.allocPlainGate(NOT, 0, []int{MakeLit(xor, true)}, origin)
	case mef.IMPLY:
		// a -> b == OR(NOT a, b): the first argument's edge is negated in
		// place, the same way any other negated Formula argument is
		// represented, rather than via a wrapping gate.
		if len(args) != 2 {
			return 0, fmt.Errorf("pdag: gate %q: %w", origin, ErrArity)
		}
		return b.allocPlainGate(OR, 0, []int{-args[0], args[1]}, origin)
	default:
		return b.allocPlainGate(AND, 0, args, origin)
	}
}

// buildCardinality implements CARDINALITY[L,H] as ATLEAST(L) when H
// already equals the argument count (every count above H is
// structurally impossible, so the upper bound is vacuous), and
// otherwise as AND(ATLEAST(L), NOT(ATLEAST(H+1))) so the upper bound H
// is actually enforced rather than silently dropped (spec §3.1
// "CARDINALITY(l,h)").
func (b *builder) buildCardinality(l, h int, args []int, origin string) (int, error) {
	if h >= len(args) {
		return b.buildAtLeastK(l, args, origin)
	}
	low, err := b.buildAtLeastK(l, args, origin)
	if err != nil {
		return 0, err
	}
	highPlusOne, err := b.buildAtLeastK(h+1, args, origin)
	if err != nil {
		return 0, err
	}
	notHigh, err := b.allocPlainGate(NOT, 0, []int{MakeLit(highPlusOne, true)}, origin)
	if err != nil {
		return 0, err
	}
	return b.allocPlainGate(AND, 0, []int{MakeLit(low, true), MakeLit(notHigh, true)}, origin)
}

// checkArity validates a translated gate's arity against spec §3.2
// ("AND/OR gates have >=2 arguments; NULL and NOT have exactly one;
// ATLEAST(k) has at least k+1").
func checkArity(c Connective, k, n int) error {
	switch c {
	case AND, OR, XOR, NAND, NOR:
		if n < 2 {
			return ErrArity
		}
	case NOT, NULLOp:
		if n != 1 {
			return ErrArity
		}
	case ATLEAST:
		if n < k+1 {
			return ErrArity
		}
	}
	return nil
}

// arg resolves one signed Formula argument to a signed PDAG edge. A
// HouseEvent contributes its own inherent polarity (folded from its
// effective State) on top of the Arg's Complement flag; every other
// event kind starts positive.
func (b *builder) arg(a mef.Arg) (int, error) {
	var idx int
	var err error
	inherentPositive := true
	switch ev := a.Event.(type) {
	case *mef.Gate:
		idx, err = b.gate(ev)
	case *mef.BasicEvent:
		idx, err = b.basicEvent(ev)
	case *mef.HouseEvent:
		idx, inherentPositive, err = b.houseEvent(ev)
	default:
		return 0, fmt.Errorf("pdag: %w: %T", ErrUnknownEvent, ev)
	}
	if err != nil {
		return 0, err
	}
	positive := inherentPositive
	if a.Complement {
		positive = !positive
	}
	return MakeLit(idx, positive), nil
}

// basicEvent returns a Variable node for b, or — when b belongs to a
// CcfGroup — an OR-gate combining b's independent term with every
// derived common-cause term that includes it (spec §3.1 CCF expansion).
func (b *builder) basicEvent(be *mef.BasicEvent) (int, error) {
	if be.CcfGroup == nil {
		if idx, ok := b.varIdx[be.Name]; ok {
			return idx, nil
		}
		idx := b.p.alloc(node{k: kVariable, varName: be.Name})
		b.varIdx[be.Name] = idx
		return idx, nil
	}

	key := be.CcfGroup.Name + "." + be.Name
	if idx, ok := b.ccfIdx[key]; ok {
		return idx, nil
	}

	terms, err := be.CcfGroup.DerivedEvents()
	if err != nil {
		return 0, err
	}

	indepIdx := b.p.alloc(node{k: kVariable, varName: be.Name})
	b.varIdx[be.Name] = indepIdx
	orArgs := []int{MakeLit(indepIdx, true)}

	for _, term := range terms {
		for _, m := range term.Members {
			if m.Name != be.Name {
				continue
			}
			tIdx, ok := b.varIdx["ccf:"+term.Event.Name]
			if !ok {
				tIdx = b.p.alloc(node{k: kVariable, varName: term.Event.Name})
				b.varIdx["ccf:"+term.Event.Name] = tIdx
			}
			orArgs = append(orArgs, MakeLit(tIdx, true))
			break
		}
	}

	idx := b.p.alloc(node{k: kGate, conn: OR, args: orArgs, origin: key})
	for _, e := range orArgs {
		child, _ := Lit(e)
		b.p.nodes[child].parents[idx] = struct{}{}
	}
	b.ccfIdx[key] = idx
	return idx, nil
}

// houseEvent folds h to the shared TRUE constant node, returning its
// inherent polarity per h's effective state (spec §3.2: "FALSE is
// expressed as a complemented edge to [the constant]").
func (b *builder) houseEvent(h *mef.HouseEvent) (idx int, positive bool, err error) {
	state := h.State
	if b.opts.HouseState != nil {
		if s, override := b.opts.HouseState(h.Name); override {
			state = s
		}
	}
	if b.p.constantNode == 0 {
		b.p.constantNode = b.p.alloc(node{k: kConstant})
		b.p.HasConstants = true
	}
	return b.p.constantNode, state, nil
}
