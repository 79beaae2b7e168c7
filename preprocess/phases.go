package preprocess

import (
	"fmt"
	"sort"

	"github.com/scram-go/scram/pdag"
)

// substitute resolves idx through a chain of literal replacements
// (installed by spliceNullAndNot / coalesceEquivalentGates) to its final
// signed literal, combining polarity along the chain.
func substitute(repl map[int]int, idx int) int {
	lit := pdag.MakeLit(idx, true)
	seen := make(map[int]bool)
	for {
		cur, pos := pdag.Lit(lit)
		next, ok := repl[cur]
		if !ok || seen[cur] {
			return lit
		}
		seen[cur] = true
		nextIdx, nextPos := pdag.Lit(next)
		lit = pdag.MakeLit(nextIdx, pos == nextPos)
	}
}

// rewriteArgs applies repl to the argument list of every remaining gate
// (and the root), following each substitution chain to its end.
func rewriteArgs(p *pdag.Pdag, repl map[int]int) {
	for _, g := range p.Gates() {
		args := p.Args(g)
		changed := false
		newArgs := make([]int, len(args))
		for i, e := range args {
			child, pos := pdag.Lit(e)
			if _, ok := repl[child]; ok {
				changed = true
			}
			resolved := substitute(repl, child)
			rIdx, rPos := pdag.Lit(resolved)
			newArgs[i] = pdag.MakeLit(rIdx, pos == rPos)
		}
		if changed {
			p.SetArgs(g, newArgs)
		}
	}
	rootLit := substitute(repl, p.Root())
	rootIdx, rootPos := pdag.Lit(rootLit)
	p.SetRoot(rootIdx)
	if !rootPos {
		p.Complement = !p.Complement
	}
}

// p1NullAbsorption splices every NULL and NOT gate out of the graph,
// folding its polarity into the literal each of its parents holds (spec
// §4.2 "P1 - Null absorption & negation push").
func p1NullAbsorption(p *pdag.Pdag) {
	repl := make(map[int]int)
	for _, g := range p.Gates() {
		switch p.Connective(g) {
		case pdag.NULLOp:
			repl[g] = p.Args(g)[0]
		case pdag.NOT:
			child, pos := pdag.Lit(p.Args(g)[0])
			repl[g] = pdag.MakeLit(child, !pos)
		}
	}
	if len(repl) > 0 {
		rewriteArgs(p, repl)
	}
}

// gateSignature is a canonical string key for syntactic gate-equivalence
// detection (spec §4.2 "P2.1 process multiple definitions").
func gateSignature(p *pdag.Pdag, g int) string {
	args := append([]int(nil), p.Args(g)...)
	sort.Ints(args)
	return fmt.Sprintf("%d|%d|%v", p.Connective(g), p.Threshold(g), args)
}

// coalesceEquivalentGates merges gates that are syntactically identical
// (same connective, threshold, and argument set) into one shared node.
func coalesceEquivalentGates(p *pdag.Pdag) {
	seen := make(map[string]int)
	repl := make(map[int]int)
	for _, g := range p.Gates() {
		sig := gateSignature(p, g)
		if canon, ok := seen[sig]; ok {
			repl[g] = canon
		} else {
			seen[sig] = g
		}
	}
	if len(repl) > 0 {
		rewriteArgs(p, repl)
	}
}

// detectModules marks every gate whose subtree variables are never
// referenced by a gate outside that subtree (spec §4.2 "P2.2 detect
// modules"). Ties in the underlying post-order numbering are inherent
// to PDAG index order, already ascending by construction.
func detectModules(p *pdag.Pdag) {
	varRefs := make(map[int]map[int]bool) // variable idx -> set of referencing gate idx
	for _, g := range p.Gates() {
		for _, e := range p.Args(g) {
			child, _ := pdag.Lit(e)
			if p.IsVariable(child) {
				if varRefs[child] == nil {
					varRefs[child] = make(map[int]bool)
				}
				varRefs[child][g] = true
			}
		}
	}

	subtreeVars := make(map[int]map[int]bool)
	subtreeGates := make(map[int]map[int]bool)
	for _, g := range p.PostOrder() {
		vars := map[int]bool{}
		gates := map[int]bool{g: true}
		for _, e := range p.Args(g) {
			child, _ := pdag.Lit(e)
			if p.IsVariable(child) {
				vars[child] = true
			} else if p.IsGate(child) {
				for v := range subtreeVars[child] {
					vars[v] = true
				}
				for gg := range subtreeGates[child] {
					gates[gg] = true
				}
			}
		}
		subtreeVars[g] = vars
		subtreeGates[g] = gates
	}

	for _, g := range p.Gates() {
		isModule := true
		for v := range subtreeVars[g] {
			for refGate := range varRefs[v] {
				if !subtreeGates[g][refGate] {
					isModule = false
					break
				}
			}
			if !isModule {
				break
			}
		}
		p.SetModule(g, isModule)
	}
}

// associative reports whether connective c distributes its arguments
// flatly, so a single-parented child of the same connective can be
// inlined without changing semantics.
func associative(c pdag.Connective) bool {
	return c == pdag.AND || c == pdag.OR
}

// coalesceAssociative inlines a gate's positive single-parent child into
// it when both share the same associative connective (spec §4.2 "P2.3
// coalesce associative gates with single-parent argument of the same
// connective").
func coalesceAssociative(p *pdag.Pdag) {
	for {
		changed := false
		for _, g := range p.Gates() {
			if !associative(p.Connective(g)) {
				continue
			}
			args := p.Args(g)
			var newArgs []int
			localChanged := false
			for _, e := range args {
				child, pos := pdag.Lit(e)
				if pos && p.IsGate(child) && p.Connective(child) == p.Connective(g) && len(p.Parents(child)) == 1 {
					newArgs = append(newArgs, p.Args(child)...)
					localChanged = true
				} else {
					newArgs = append(newArgs, e)
				}
			}
			if localChanged {
				p.SetArgs(g, newArgs)
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// mergeDuplicateArgs removes repeated identical literals within one
// gate's argument list (AND/OR/NAND/NOR idempotence under duplication),
// the simplified form of spec §4.2 "P2.4 merge common arguments across
// sibling gates" implemented at the single-gate level. XOR and ATLEAST
// gates are left alone, since a repeated argument changes their value.
func mergeDuplicateArgs(p *pdag.Pdag) {
	for _, g := range p.Gates() {
		if c := p.Connective(g); c == pdag.XOR || c == pdag.ATLEAST {
			continue
		}
		args := p.Args(g)
		seen := make(map[int]bool, len(args))
		var out []int
		dup := false
		for _, e := range args {
			if seen[e] {
				dup = true
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
		if dup {
			p.SetArgs(g, out)
		}
	}
}

// combinations yields every k-length subset of [0, n), used by the
// ATLEAST expansion below.
func combinations(n, k int) [][]int {
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		out = append(out, append([]int(nil), idx...))
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// expandAtleastAndXor replaces every ATLEAST(k) and XOR gate with an
// equivalent AND/OR tree (spec §4.2 "P3 - Structural normalization").
// XOR is folded pairwise via left-associative exclusive-or expansion;
// ATLEAST(k) over n args becomes an OR of AND-conjunctions over every
// k-subset, the textbook combinatorial expansion.
func expandAtleastAndXor(p *pdag.Pdag) {
	for {
		progressed := false
		for _, g := range p.Gates() {
			switch p.Connective(g) {
			case pdag.XOR:
				args := p.Args(g)
				if len(args) < 2 {
					continue
				}
				acc := args[0]
				for _, next := range args[1:] {
					accC, accPos := pdag.Lit(acc)
					nextC, nextPos := pdag.Lit(next)
					left := p.AllocGate(pdag.AND, 0, []int{
						pdag.MakeLit(accC, accPos), pdag.MakeLit(nextC, !nextPos),
					}, "")
					right := p.AllocGate(pdag.AND, 0, []int{
						pdag.MakeLit(accC, !accPos), pdag.MakeLit(nextC, nextPos),
					}, "")
					acc = pdag.MakeLit(p.AllocGate(pdag.OR, 0, []int{
						pdag.MakeLit(left, true), pdag.MakeLit(right, true),
					}, ""), true)
				}
				p.SetConnective(g, pdag.OR)
				accIdx, accPos := pdag.Lit(acc)
				p.SetArgs(g, []int{pdag.MakeLit(accIdx, accPos)})
				progressed = true
			case pdag.ATLEAST:
				k := p.Threshold(g)
				args := p.Args(g)
				subsets := combinations(len(args), k)
				orArgs := make([]int, 0, len(subsets))
				for _, subset := range subsets {
					andArgs := make([]int, len(subset))
					for i, si := range subset {
						andArgs[i] = args[si]
					}
					orArgs = append(orArgs, pdag.MakeLit(p.AllocGate(pdag.AND, 0, andArgs, ""), true))
				}
				p.SetConnective(g, pdag.OR)
				p.SetThreshold(g, 0)
				p.SetArgs(g, orArgs)
				progressed = true
			}
		}
		if !progressed {
			return
		}
	}
}

// dualConnective returns the De Morgan dual of an AND/OR/NAND/NOR
// connective, and whether each child's polarity must also flip
// (true for AND/OR, false for NAND/NOR since negating "NOT(conn)"
// simply removes the outer NOT without touching the children).
func dualConnective(c pdag.Connective) (dual pdag.Connective, flipChildren bool) {
	switch c {
	case pdag.AND:
		return pdag.OR, true
	case pdag.OR:
		return pdag.AND, true
	case pdag.NAND:
		return pdag.AND, false
	case pdag.NOR:
		return pdag.OR, false
	default:
		return c, true
	}
}

// pushNNF eliminates every negative edge pointing at a Gate node by
// materializing its De Morgan dual, so that only Variable/Constant
// literals may still carry a negative sign (spec §4.2 "P4 - NNF
// normalization: push negations to literals"). By the time this phase
// runs, P3 has already removed XOR and ATLEAST (spec's fixed level
// mapping always schedules P3 before P4), so only AND/OR/NAND/NOR
// remain.
func pushNNF(p *pdag.Pdag) {
	dualOf := make(map[int]int)
	var negate func(idx int) int
	negate = func(idx int) int {
		if d, ok := dualOf[idx]; ok {
			return d
		}
		conn, flip := dualConnective(p.Connective(idx))
		args := p.Args(idx)
		newArgs := make([]int, len(args))
		for i, e := range args {
			child, pos := pdag.Lit(e)
			switch {
			case !flip:
				// NAND/NOR: negating the gate only strips the connective's
				// own implicit NOT, so every argument — leaf or gate —
				// keeps its original edge untouched.
				newArgs[i] = e
			case !p.IsGate(child):
				newArgs[i] = pdag.MakeLit(child, !pos)
			case pos:
				newArgs[i] = pdag.MakeLit(negate(child), true)
			default:
				newArgs[i] = pdag.MakeLit(child, true)
			}
		}
		didx := p.AllocGate(conn, 0, newArgs, "")
		dualOf[idx] = didx
		return didx
	}

	for {
		progressed := false
		for _, g := range p.Gates() {
			args := p.Args(g)
			newArgs := make([]int, len(args))
			changed := false
			for i, e := range args {
				child, pos := pdag.Lit(e)
				if !pos && p.IsGate(child) {
					newArgs[i] = pdag.MakeLit(negate(child), true)
					changed = true
				} else {
					newArgs[i] = e
				}
			}
			if changed {
				p.SetArgs(g, newArgs)
				progressed = true
			}
		}
		if p.Complement && p.IsGate(p.Root()) {
			p.SetRoot(negate(p.Root()))
			p.Complement = false
			progressed = true
		}
		if !progressed {
			break
		}
	}

	// Fold any remaining NAND/NOR gates to their De Morgan OR/AND form so
	// only AND/OR (plus already-leaf-only negative literals) survive,
	// satisfying the MOCUS post-condition's "only AND/OR gates" shape.
	for {
		progressed := false
		for _, g := range p.Gates() {
			conn := p.Connective(g)
			if conn != pdag.NAND && conn != pdag.NOR {
				continue
			}
			// NAND(args) == OR(NOT args); NOR(args) == AND(NOT args) — this
			// is the gate's own De Morgan expansion, not dualConnective's
			// negation mapping (which answers "what is NOT this gate").
			var expanded pdag.Connective
			if conn == pdag.NAND {
				expanded = pdag.OR
			} else {
				expanded = pdag.AND
			}
			args := p.Args(g)
			newArgs := make([]int, len(args))
			for i, e := range args {
				child, pos := pdag.Lit(e)
				if p.IsGate(child) {
					newArgs[i] = pdag.MakeLit(negate(child), true)
				} else {
					newArgs[i] = pdag.MakeLit(child, !pos)
				}
			}
			p.SetConnective(g, expanded)
			p.SetArgs(g, newArgs)
			progressed = true
		}
		if !progressed {
			return
		}
	}
}
