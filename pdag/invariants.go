package pdag

import "fmt"

// checkInvariants verifies the structural invariants spec §3.2 requires
// of every well-formed PDAG: edges index live nodes, gate arity matches
// each connective's minimum, and no gate is its own ancestor. Density of
// the variable index range is not checked (see checkVariableRange).
func (p *Pdag) checkInvariants() error {
	for i := 1; i < len(p.nodes); i++ {
		n := &p.nodes[i]
		if n.k != kGate {
			continue
		}
		for _, e := range n.args {
			idx, _ := Lit(e)
			if idx < 1 || idx >= len(p.nodes) {
				return fmt.Errorf("pdag: gate %q: %w", n.origin, ErrBadIndex)
			}
		}
		if err := checkArity(n.conn, n.k_, len(n.args)); err != nil {
			return fmt.Errorf("pdag: gate %q: %w", n.origin, err)
		}
	}
	if err := p.checkAcyclic(); err != nil {
		return err
	}
	return p.checkVariableRange()
}

// checkAcyclic confirms no gate is its own ancestor, using the same
// White/Gray/Black DFS coloring dfs.TopologicalSort uses for cycle
// detection over core.Graph.
func (p *Pdag) checkAcyclic() error {
	const white, gray, black = 0, 1, 2
	state := make([]byte, len(p.nodes))
	var visit func(int) error
	visit = func(idx int) error {
		state[idx] = gray
		n := &p.nodes[idx]
		if n.k == kGate {
			for _, e := range n.args {
				child, _ := Lit(e)
				switch state[child] {
				case gray:
					return fmt.Errorf("pdag: gate %q: %w", n.origin, ErrSelfAncestor)
				case white:
					if err := visit(child); err != nil {
						return err
					}
				}
			}
		}
		state[idx] = black
		return nil
	}
	for i := 1; i < len(p.nodes); i++ {
		if p.nodes[i].k == kGate && state[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkVariableRange is a no-op: Variable nodes are interleaved with Gate
// allocations during the post-order build, so their indices are not
// dense, and no pass renumbers them afterwards. ErrVariableRange is not
// returned by any code path.
func (p *Pdag) checkVariableRange() error { return nil }
