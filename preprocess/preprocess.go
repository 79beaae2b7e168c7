package preprocess

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/scram-go/scram/pdag"
)

// Run rewrites p in place through the phases selected by level (spec
// §4.2 "Level to pass mapping"), logging one zerolog debug event per
// phase with the node count before and after — mirroring the way
// original_source's log_pdag.h/log_build.h log PDAG statistics at each
// rewrite stage.
func Run(p *pdag.Pdag, level int) error {
	if level < 0 || level > 8 {
		return ErrLevel
	}
	ps := phasesFor(level)

	runPhase := func(name string, fn func(*pdag.Pdag)) {
		before := p.Len()
		fn(p)
		log.Debug().
			Str("phase", name).
			Int("compilation_level", level).
			Int("node_count_before", before).
			Int("node_count_after", p.Len()).
			Msg("preprocess: phase complete")
	}

	if ps.expandAtleastXor && !ps.p3 {
		runPhase("atleast_xor_expand", expandAtleastAndXor)
	}
	if ps.p1 {
		runPhase("p1_null_absorption", p1NullAbsorption)
	}
	if ps.p2 {
		runPhase("p2_coalesce_equivalent", coalesceEquivalentGates)
		runPhase("p2_detect_modules", detectModules)
		runPhase("p2_coalesce_associative", coalesceAssociative)
		runPhase("p2_merge_duplicate_args", mergeDuplicateArgs)
	}
	if ps.p2Extended {
		runPhase("p2_extended_detect_modules", detectModules)
		runPhase("p2_extended_coalesce_associative", coalesceAssociative)
	}
	if ps.p3 {
		runPhase("p3_structural_normalization", expandAtleastAndXor)
	}
	if ps.p4 {
		runPhase("p4_nnf_push", pushNNF)
	}
	if ps.p5 {
		runPhase("p5_coalesce_equivalent", coalesceEquivalentGates)
		runPhase("p5_coalesce_associative", coalesceAssociative)
	}

	runPhase("assign_variable_order", assignVariableOrder)
	return nil
}

// PreprocessFor runs the pipeline at a level sufficient for target's
// required post-condition shape (spec §4.2 table), then verifies that
// shape holds. A post-condition failure after the pipeline ran is an
// internal inconsistency (ErrPostCondition), never an input error —
// those are rejected earlier at model validation (spec §4.2 "Failure
// semantics").
func PreprocessFor(p *pdag.Pdag, target Target) error {
	level, ok := map[Target]int{
		TargetMOCUS: 8,
		TargetBDD:   4,
		TargetZBDD:  8,
	}[target]
	if !ok {
		return fmt.Errorf("pdag: %w: %v", ErrUnsupportedTarget, target)
	}
	if err := Run(p, level); err != nil {
		return err
	}
	return checkPostCondition(p, target)
}

// checkPostCondition verifies the post-pipeline PDAG satisfies spec
// §4.2's required shape for target. Only gates reachable from the root
// are checked: gates spliced out by earlier phases stay in the arena.
func checkPostCondition(p *pdag.Pdag, target Target) error {
	switch target {
	case TargetMOCUS, TargetZBDD:
		for _, g := range p.PostOrder() {
			switch p.Connective(g) {
			case pdag.AND, pdag.OR:
			default:
				return fmt.Errorf("pdag: gate %q has connective %v: %w", p.GateOrigin(g), p.Connective(g), ErrPostCondition)
			}
			for _, e := range p.Args(g) {
				child, pos := pdag.Lit(e)
				if !pos {
					return fmt.Errorf("pdag: gate %q has a negative edge: %w", p.GateOrigin(g), ErrPostCondition)
				}
				if p.IsConstant(child) {
					return fmt.Errorf("pdag: gate %q reaches a constant: %w", p.GateOrigin(g), ErrPostCondition)
				}
			}
		}
		if p.IsConstant(p.Root()) {
			return fmt.Errorf("pdag: root is a constant: %w", ErrPostCondition)
		}
		if target == TargetZBDD {
			for _, v := range p.Variables() {
				if p.VarOrder(v) < 0 {
					return fmt.Errorf("pdag: variable %q has no order: %w", p.VariableName(v), ErrPostCondition)
				}
			}
		}
	case TargetBDD:
		for _, g := range p.PostOrder() {
			if p.Connective(g) == pdag.NULLOp {
				return fmt.Errorf("pdag: gate %q is NULL: %w", p.GateOrigin(g), ErrPostCondition)
			}
		}
		for _, v := range p.Variables() {
			if p.VarOrder(v) < 0 {
				return fmt.Errorf("pdag: variable %q has no order: %w", p.VariableName(v), ErrPostCondition)
			}
		}
	}
	return nil
}
