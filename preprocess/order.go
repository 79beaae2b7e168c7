package preprocess

import "github.com/scram-go/scram/pdag"

// assignVariableOrder walks the PDAG from its root in topological
// first-appearance order — positive edges before negative ones at each
// gate, per spec §4.2 ("Variable ordering is a topological order of
// first-appearance from the root walking positive then negative
// edges") — and records each Variable's rank via SetVarOrder. The walk
// is deterministic and stable under re-running the preprocessor, since
// gate argument order never changes except through the phases above.
func assignVariableOrder(p *pdag.Pdag) {
	visited := make(map[int]bool)
	next := 0
	var visit func(idx int)
	visit = func(idx int) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		switch {
		case p.IsVariable(idx):
			p.SetVarOrder(idx, next)
			next++
		case p.IsGate(idx):
			args := p.Args(idx)
			for _, e := range args {
				if child, pos := pdag.Lit(e); pos {
					visit(child)
				}
			}
			for _, e := range args {
				if child, pos := pdag.Lit(e); !pos {
					visit(child)
				}
			}
		}
	}
	visit(p.Root())
}
