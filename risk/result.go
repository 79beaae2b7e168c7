package risk

import "github.com/scram-go/scram/quant"

// TargetID names what a Result describes: either a bare fault-tree top
// gate, or an (initiating event, sequence) pair (spec §3.5 "target id
// (gate or (initiating-event, sequence))").
type TargetID struct {
	Gate            string
	InitiatingEvent string
	Sequence        string
}

func (t TargetID) String() string {
	if t.InitiatingEvent != "" || t.Sequence != "" {
		return t.InitiatingEvent + "/" + t.Sequence
	}
	return t.Gate
}

// Context names the alignment/phase a Result was computed under, or is
// nil for models with no alignments (spec §3.5, §4.5).
type Context struct {
	Alignment string
	Phase     string
}

// Product is one minimal cut set / prime implicant: a sorted list of
// signed variable orders, with probability and top-event contribution
// fraction filled in when available (spec §6.2).
type Product struct {
	Literals     []int
	Probability  float64
	Contribution float64
}

// Qualitative is the qualitative-analysis portion of a Result (spec
// §3.5, §6.2).
type Qualitative struct {
	BasicEvents        []string
	Products           []Product
	DistributionByOrder map[int]int
	OriginalProducts   int
	PrunedProducts     int
	CutOffApplied      bool
	AppliedCutOff      float64
}

// Probability is the quantitative top-event-probability portion of a
// Result (spec §3.5, §6.2).
type Probability struct {
	PTotal float64
	Curve  []quant.TimePoint
	SIL    *quant.Sil
}

// ImportanceRecord names an Importance measurement by its basic event
// (spec §6.2 "per basic event {name, occurrence, probability, MIF,
// CIF, DIF, RAW, RRW}"); quant.ImportanceAnalyzer only knows variable
// orders, so the orchestrator attaches the name here.
type ImportanceRecord struct {
	Name string
	quant.Importance
}

// Timing holds the per-phase durations spec §6.2 requires, in seconds.
type Timing struct {
	PreprocessingSeconds float64
	ProductsSeconds      float64
	ProbabilitySeconds   float64
	ImportanceSeconds    float64
	UncertaintySeconds   float64
	ReportSeconds        float64
}

// Result is one row of analysis output (spec §3.5). Frequency is 1.0
// for plain fault-tree tops and the initiating event's frequency_value
// for event-tree sequence targets (spec §4.5 "Frequency handling").
//
// SequenceExpressionValue is non-nil whenever the synthesized sequence
// carried at least one CollectExpression instruction, regardless of
// whether a fault-tree probability was also computed — resolving spec
// §9's Open Question ("must not silently ignore" either value) by
// always reporting both when both exist; see DESIGN.md.
type Result struct {
	Target    TargetID
	Context   *Context
	Frequency float64

	IsExpressionOnly        bool
	SequenceExpressionValue *float64

	Qualitative *Qualitative
	Probability *Probability
	Importance  []ImportanceRecord
	Uncertainty *quant.UncertaintyResult

	Timing Timing
}
