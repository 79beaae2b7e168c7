package risk

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scram-go/scram/bdd"
	"github.com/scram-go/scram/expr"
	"github.com/scram-go/scram/mef"
	"github.com/scram-go/scram/mocus"
	"github.com/scram-go/scram/pdag"
	"github.com/scram-go/scram/preprocess"
	"github.com/scram-go/scram/quant"
	"github.com/scram-go/scram/zbdd"
)

// Option configures an Orchestrator at construction, the same
// functional-options shape the teacher's builder package uses for
// ASCII-art graph construction.
type Option func(*Orchestrator)

// WithEventTreeAnalyzer overrides the default in-process event-tree
// synthesis (spec §4.6) with a host-supplied implementation.
func WithEventTreeAnalyzer(a EventTreeAnalyzer) Option {
	return func(o *Orchestrator) { o.eventTreeAnalyzer = a }
}

// Orchestrator runs one risk.Settings configuration against one
// mef.Model, producing a Result per fault-tree top and per event-tree
// sequence (spec §4.5, §4.6, C9).
type Orchestrator struct {
	Model    *mef.Model
	Settings Settings

	eventTreeAnalyzer EventTreeAnalyzer
}

// New validates settings and returns a ready Orchestrator.
func New(model *mef.Model, settings Settings, opts ...Option) (*Orchestrator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{Model: model, Settings: settings, eventTreeAnalyzer: DefaultEventTreeAnalyzer{}}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// analysisContext is the internal (alignment, phase) pairing walked by
// Analyze; ctx.phase is nil for models with no alignments.
type analysisContext struct {
	alignment string
	phase     *mef.Phase
}

func (c analysisContext) public() *Context {
	if c.phase == nil {
		return nil
	}
	return &Context{Alignment: c.alignment, Phase: c.phase.Name}
}

// Analyze runs every enabled analysis phase over every fault-tree top
// and event-tree sequence, across every alignment/phase context (spec
// §4.5 "iteration order of {alignments x phases x initiating events x
// sequences}").
func (o *Orchestrator) Analyze() ([]Result, error) {
	contexts := o.contexts()
	topNames := o.faultTreeTopNames()
	usedTops := o.usedAsSequenceTop(topNames)

	var results []Result
	for _, ctx := range contexts {
		restore, houseOverride := o.applyContext(ctx)

		tops := o.sortedFaultTreeTops()
		for _, t := range tops {
			if usedTops[t.name] {
				continue
			}
			res, err := o.runTarget(t.gate, houseOverride, TargetID{Gate: t.name}, ctx.public(), 1.0, false, nil)
			if err != nil {
				restore()
				return nil, &AnalysisError{Kind: LogicError, Phase: "analyze", Target: t.name, Err: err}
			}
			results = append(results, res)
		}

		seqResults, err := o.sequenceResults()
		if err != nil {
			restore()
			return nil, err
		}
		for _, sr := range seqResults {
			seqHouseOverride := combineHouseOverrides(houseOverride, sr.sr.HouseInstructions)
			freq := sr.ie.Frequency.Value()
			target := TargetID{InitiatingEvent: sr.ie.Name, Sequence: sr.sr.Sequence}

			var exprPtr *float64
			if sr.sr.HasExpression {
				v := sr.sr.ExpressionValue
				exprPtr = &v
			}

			if sr.sr.Gate == nil {
				results = append(results, Result{
					Target:                  target,
					Context:                 ctx.public(),
					Frequency:               freq,
					IsExpressionOnly:        true,
					SequenceExpressionValue: exprPtr,
				})
				continue
			}

			res, err := o.runTarget(sr.sr.Gate, seqHouseOverride, target, ctx.public(), freq, false, exprPtr)
			if err != nil {
				restore()
				return nil, &AnalysisError{Kind: LogicError, Phase: "analyze", Target: target.String(), Err: err}
			}
			results = append(results, res)
		}

		restore()
	}

	if len(results) == 0 {
		return nil, ErrNoTops
	}
	return results, nil
}

// contexts returns {alignment x phase} in alignment-name order,
// preserving each Alignment's own phase order (spec §3.1 phases are an
// ordered partition, not a set), or a single nil-phase context when the
// model declares no alignments.
func (o *Orchestrator) contexts() []analysisContext {
	alignments := o.Model.Alignments()
	if len(alignments) == 0 {
		return []analysisContext{{}}
	}
	names := make([]string, 0, len(alignments))
	for name := range alignments {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []analysisContext
	for _, name := range names {
		for _, ph := range alignments[name].Phases {
			out = append(out, analysisContext{alignment: name, phase: ph})
		}
	}
	return out
}

// applyContext scales the model's shared MissionTime to this phase's
// slice of the overall mission time and returns a restore func plus a
// HouseState override reading this phase's SetHouseEvent instructions
// (spec §4.5 "a phase scopes a mission-time fraction and a set of
// house-event overrides").
func (o *Orchestrator) applyContext(ctx analysisContext) (restore func(), houseOverride func(name string) (bool, bool)) {
	prev := o.Model.MissionTime.Value()
	if ctx.phase != nil {
		o.Model.MissionTime.Set(o.Settings.MissionTime * ctx.phase.TimeFraction)
		instructions := ctx.phase.Instructions
		houseOverride = func(name string) (bool, bool) {
			for _, si := range instructions {
				if si.Event.Name == name {
					return si.State, true
				}
			}
			return false, false
		}
	} else {
		o.Model.MissionTime.Set(o.Settings.MissionTime)
	}
	restore = func() { o.Model.MissionTime.Set(prev) }
	return restore, houseOverride
}

// combineHouseOverrides layers a sequence's own SetHouse instructions on
// top of the enclosing phase's, the sequence taking precedence (spec
// §4.6: a sequence's own instructions are the most specific scope).
func combineHouseOverrides(phaseOverride func(string) (bool, bool), seqInstructions []mef.SetHouseEvent) func(string) (bool, bool) {
	if len(seqInstructions) == 0 {
		return phaseOverride
	}
	return func(name string) (bool, bool) {
		for _, si := range seqInstructions {
			if si.Event.Name == name {
				return si.State, true
			}
		}
		if phaseOverride != nil {
			return phaseOverride(name)
		}
		return false, false
	}
}

type faultTreeTop struct {
	name string
	gate *mef.Gate
}

func (o *Orchestrator) sortedFaultTreeTops() []faultTreeTop {
	trees := o.Model.FaultTrees()
	names := make([]string, 0, len(trees))
	for name := range trees {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []faultTreeTop
	for _, name := range names {
		for _, top := range trees[name].Tops {
			out = append(out, faultTreeTop{name: top.Name, gate: top})
		}
	}
	return out
}

func (o *Orchestrator) faultTreeTopNames() map[string]bool {
	out := make(map[string]bool)
	for _, t := range o.sortedFaultTreeTops() {
		out[t.name] = true
	}
	return out
}

// usedAsSequenceTop flags every fault-tree top directly referenced by a
// sequence's CollectFormula as its sole argument (spec §4.5 "a sequence
// that merely restates a fault-tree top is reported once, under the
// sequence"). Only this depth-1 shape is recognized; a CollectFormula
// that wraps a top inside a larger conjunction is reported under both
// the top and the sequence — a documented simplification, see
// DESIGN.md.
func (o *Orchestrator) usedAsSequenceTop(topNames map[string]bool) map[string]bool {
	used := make(map[string]bool)
	for _, ie := range o.Model.InitiatingEvents() {
		if ie.Tree == nil {
			continue
		}
		for _, seq := range ie.Tree.Sequences {
			for _, inst := range seq.Instructions {
				if inst.CollectFormula == nil || len(inst.CollectFormula.Args) != 1 {
					continue
				}
				if g, ok := inst.CollectFormula.Args[0].Event.(*mef.Gate); ok && topNames[g.Name] {
					used[g.Name] = true
				}
			}
		}
	}
	return used
}

type ieSeq struct {
	ie *mef.InitiatingEvent
	sr SequenceResult
}

func (o *Orchestrator) sequenceResults() ([]ieSeq, error) {
	ies := o.Model.InitiatingEvents()
	names := make([]string, 0, len(ies))
	for name := range ies {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []ieSeq
	for _, name := range names {
		ie := ies[name]
		if ie.Tree == nil {
			continue
		}
		srs, err := o.eventTreeAnalyzer.Analyze(ie)
		if err != nil {
			return nil, &AnalysisError{Kind: LogicError, Phase: "event_tree", Target: ie.Name, Err: err}
		}
		for _, sr := range srs {
			out = append(out, ieSeq{ie: ie, sr: sr})
		}
	}
	return out, nil
}

// calcCond is the Calculator+Conditional pair every approximation
// (RareEvent, MCUB) and the exact ExactBDD backend satisfy, letting
// runTarget treat them uniformly for both Total and Importance.
type calcCond interface {
	quant.Calculator
	quant.Conditional
}

// runTarget routes one gate through pdag construction, preprocessing,
// qualitative cut-set generation, and the enabled quantitative phases
// (spec §4.1 pipeline: "PDAG -> preprocess -> {BDD,ZBDD,MOCUS} ->
// quant").
func (o *Orchestrator) runTarget(gate *mef.Gate, houseOverride func(string) (bool, bool), target TargetID, ctx *Context, freq float64, isExpressionOnly bool, seqExprValue *float64) (Result, error) {
	var timing Timing

	t0 := time.Now()
	p, err := pdag.Build(gate, pdag.BuildOptions{HouseState: houseOverride})
	if err != nil {
		return Result{}, fmt.Errorf("risk: target %q: pdag build: %w", target, err)
	}

	var ppTarget preprocess.Target
	switch o.Settings.Algorithm {
	case BDD:
		ppTarget = preprocess.TargetBDD
	case ZBDD:
		ppTarget = preprocess.TargetZBDD
	case MOCUS:
		ppTarget = preprocess.TargetMOCUS
	}
	if err := preprocess.PreprocessFor(p, ppTarget); err != nil {
		return Result{}, fmt.Errorf("risk: target %q: preprocess: %w", target, err)
	}
	timing.PreprocessingSeconds = time.Since(t0).Seconds()

	pVars, err := quant.ExtractPVars(p, o.Model)
	if err != nil {
		return Result{}, fmt.Errorf("risk: target %q: %w", target, err)
	}

	t1 := time.Now()
	var calc calcCond
	var qual *Qualitative

	switch o.Settings.Algorithm {
	case BDD:
		d, root, err := bdd.Build(p)
		if err != nil {
			return Result{}, fmt.Errorf("risk: target %q: bdd build: %w", target, err)
		}
		calc = quant.ExactBDD{Diagram: d, Root: root}
		if o.Settings.PrimeImplicants {
			products := primeImplicantsFromBDD(d, root)
			qual = buildQualitative(variableNames(p), products, products, pVars, false, 0)
		}
	case ZBDD:
		f, root, err := zbdd.Build(p)
		if err != nil {
			return Result{}, fmt.Errorf("risk: target %q: zbdd build: %w", target, err)
		}
		original := f.Enumerate(root)
		pruned := original
		cutOffApplied := false
		if o.Settings.LimitOrder > 0 {
			root = f.ApplyCardinalityCutoff(root, o.Settings.LimitOrder)
			cutOffApplied = true
		}
		if o.Settings.CutOff > 0 {
			root = f.ApplyProbabilityCutoff(root, o.Settings.CutOff, pVars)
			cutOffApplied = true
		}
		pruned = f.Enumerate(root)
		qual = buildQualitative(variableNames(p), original, pruned, pVars, cutOffApplied, o.Settings.CutOff)
		calc = approxCalculator(o.Settings.Approximation, pruned)
	case MOCUS:
		settings := mocus.Settings{LimitOrder: o.Settings.LimitOrder, CutOff: o.Settings.CutOff, PVars: pVars}
		f, root, err := mocus.Expand(p, settings)
		if err != nil {
			return Result{}, fmt.Errorf("risk: target %q: mocus expand: %w", target, err)
		}
		pruned := f.Enumerate(root)
		// The per-gate cutoff prune happens inline during expansion (spec
		// §4.3.1), so there is no separate "original" count to report here
		// distinct from pruned.
		qual = buildQualitative(variableNames(p), pruned, pruned, pVars, o.Settings.LimitOrder > 0 || o.Settings.CutOff > 0, o.Settings.CutOff)
		calc = approxCalculator(o.Settings.Approximation, pruned)
	}
	timing.ProductsSeconds = time.Since(t1).Seconds()

	var prob *Probability
	var importanceRecords []ImportanceRecord
	var uncertainty *quant.UncertaintyResult

	if o.Settings.ProbabilityAnalysis || o.Settings.SafetyIntegrityLevels {
		t2 := time.Now()
		pa := quant.NewProbabilityAnalyzer(calc, pVars)
		if err := pa.Run(); err != nil {
			return Result{}, fmt.Errorf("risk: target %q: probability: %w", target, err)
		}
		if o.Settings.TimeStep > 0 {
			err := pa.RunCurve(o.Model.MissionTime, o.Settings.TimeStep, o.Settings.MissionTime, o.Settings.SafetyIntegrityLevels, func(float64) (map[int]float64, error) {
				return quant.ExtractPVars(p, o.Model)
			})
			if err != nil {
				return Result{}, fmt.Errorf("risk: target %q: probability curve: %w", target, err)
			}
		}
		applyContribution(qual, pa.PTotal)
		// The reported PTotal is the initiating event's frequency folded
		// into the gate's probability (spec §4.5); qual's per-product
		// Contribution fractions above are computed against the raw,
		// unscaled pa.PTotal so they still sum to 1 regardless of freq.
		prob = &Probability{PTotal: freq * pa.PTotal, Curve: pa.Curve, SIL: pa.SIL}
		timing.ProbabilitySeconds = time.Since(t2).Seconds()

		if o.Settings.ImportanceAnalysis {
			t3 := time.Now()
			var products [][]int
			if qual != nil {
				for _, pr := range qual.Products {
					products = append(products, pr.Literals)
				}
			}
			ia := quant.NewImportanceAnalyzer(calc, pVars, pa.PTotal, products)
			imps, err := ia.Run()
			if err != nil {
				return Result{}, fmt.Errorf("risk: target %q: importance: %w", target, err)
			}
			names := variableNamesByOrder(p)
			for _, imp := range imps {
				importanceRecords = append(importanceRecords, ImportanceRecord{Name: names[imp.Variable], Importance: imp})
			}
			sort.Slice(importanceRecords, func(i, j int) bool { return importanceRecords[i].Name < importanceRecords[j].Name })
			timing.ImportanceSeconds = time.Since(t3).Seconds()
		}

		if o.Settings.UncertaintyAnalysis {
			t4 := time.Now()
			deviates := make(map[int]expr.Expression)
			for _, idx := range p.Variables() {
				name := p.VariableName(idx)
				be, ok := o.Model.BasicEvent(name)
				if ok && be.Expression.IsDeviate() {
					deviates[p.VarOrder(idx)] = be.Expression
				}
			}
			ua := &quant.UncertaintyAnalyzer{
				Calculator:   calc,
				Deviates:     deviates,
				PVars:        pVars,
				NumTrials:    o.Settings.NumTrials,
				NumQuantiles: o.Settings.NumQuantiles,
				NumBins:      o.Settings.NumBins,
			}
			res, err := ua.Run()
			if err != nil {
				return Result{}, fmt.Errorf("risk: target %q: uncertainty: %w", target, err)
			}
			uncertainty = res
			timing.UncertaintySeconds = time.Since(t4).Seconds()
		}
	}

	log.Debug().
		Str("target", target.String()).
		Int("pdag_nodes", p.Len()).
		Msg("risk: target analysis complete")

	return Result{
		Target:                  target,
		Context:                 ctx,
		Frequency:               freq,
		IsExpressionOnly:        isExpressionOnly,
		SequenceExpressionValue: seqExprValue,
		Qualitative:             qual,
		Probability:             prob,
		Importance:              importanceRecords,
		Uncertainty:             uncertainty,
		Timing:                  timing,
	}, nil
}

func approxCalculator(a Approximation, products [][]int) calcCond {
	switch a {
	case MCUB:
		return quant.MCUB{Products: products}
	default:
		return quant.RareEvent{Products: products}
	}
}

func variableNames(p *pdag.Pdag) []string {
	var out []string
	for _, idx := range p.Variables() {
		out = append(out, p.VariableName(idx))
	}
	sort.Strings(out)
	return out
}

func variableNamesByOrder(p *pdag.Pdag) map[int]string {
	out := make(map[int]string)
	for _, idx := range p.Variables() {
		out[p.VarOrder(idx)] = p.VariableName(idx)
	}
	return out
}
