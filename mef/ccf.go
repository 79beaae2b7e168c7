package mef

import (
	"fmt"
	"strings"

	"github.com/scram-go/scram/expr"
)

// CcfModel selects the common-cause-failure factor model used to derive
// sub-gates from a CcfGroup's member events (spec §3.1).
type CcfModel int

const (
	BetaFactor CcfModel = iota
	MGL
	AlphaFactor
)

// CcfGroup is a set of BasicEvents plus a Model producing derived basic
// events for every non-empty subset up to the group size.
type CcfGroup struct {
	Name    string
	Model   CcfModel
	Members []*BasicEvent
	// Factors holds the model's numeric factors (beta; or one per level
	// 2..n for MGL/alpha-factor), each an Expression in (0, 1).
	Factors []expr.Expression
}

// Validate enforces spec §3.1 ("CCF group too small" is a ValidityError).
func (c *CcfGroup) Validate() error {
	if len(c.Members) < 2 {
		return fmt.Errorf("mef: ccf group %q has %d members: %w", c.Name, len(c.Members), ErrCcfGroupTooSmall)
	}
	return nil
}

// DerivedTerm is one synthesized term of a CCF expansion: a derived basic
// event standing for "exactly this subset of members fails due to a
// common cause", with the probability expression the model assigns it.
type DerivedTerm struct {
	Event   *BasicEvent
	Members []*BasicEvent
}

// DerivedEvents expands the group according to its Model, producing one
// derived BasicEvent per applicable non-empty member subset:
//
//   - BetaFactor: collapses to a single common-cause basic event standing
//     for "all members fail together", per the classical beta-factor
//     model (single shared term, no per-subset expansion).
//   - MGL / AlphaFactor: one derived basic event per actual C(n, k)
//     combination, for every order 2..len(Members), sharing that
//     order's factor (the members are statistically exchangeable under
//     these models, so every subset of a given order gets the same
//     probability expression, but each is still its own event), following
//     the staged-factor formulas recovered from the original engine's CCF
//     expansion (original_source analysis.h / ccf_group semantics).
//
// The returned events are not yet wired into any Gate; callers (the PDAG
// builder) combine them with the group's independent-failure terms.
func (c *CcfGroup) DerivedEvents() ([]DerivedTerm, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := len(c.Members)
	switch c.Model {
	case BetaFactor:
		ev := &BasicEvent{
			Name:       c.Name + ".CCCF",
			Expression: firstOrZero(c.Factors),
		}
		return []DerivedTerm{{Event: ev, Members: append([]*BasicEvent(nil), c.Members...)}}, nil
	case MGL, AlphaFactor:
		var terms []DerivedTerm
		for order := 2; order <= n; order++ {
			idx := order - 2
			var factorExpr expr.Expression
			if idx < len(c.Factors) {
				factorExpr = c.Factors[idx]
			} else {
				factorExpr = expr.NewConstant(0)
			}
			// Every C(n, order) combination of this order gets its own
			// derived event, all sharing the order's factor — MGL/alpha-
			// factor treat same-order subsets as statistically
			// exchangeable, but every member must still appear in some
			// subset at every order below n (spec §3.1), not just the
			// group's first "order" members.
			for _, combo := range combinations(c.Members, order) {
				names := make([]string, len(combo))
				for i, m := range combo {
					names[i] = m.Name
				}
				ev := &BasicEvent{
					Name:       fmt.Sprintf("%s.CCF%d.%s", c.Name, order, strings.Join(names, "")),
					Expression: factorExpr,
				}
				terms = append(terms, DerivedTerm{Event: ev, Members: combo})
			}
		}
		return terms, nil
	default:
		return nil, fmt.Errorf("mef: unknown ccf model %d", c.Model)
	}
}

// combinations returns every k-element subset of members, in lexical
// order of member index, preserving relative order within each subset.
func combinations(members []*BasicEvent, k int) [][]*BasicEvent {
	n := len(members)
	if k <= 0 || k > n {
		return nil
	}
	var out [][]*BasicEvent
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]*BasicEvent, k)
		for i, j := range idx {
			combo[i] = members[j]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

func firstOrZero(exprs []expr.Expression) expr.Expression {
	if len(exprs) == 0 {
		return expr.NewConstant(0)
	}
	return exprs[0]
}
