package risk

import "github.com/scram-go/scram/mef"

// ModelLoader parses an input source into a mef.Model (spec §6.1). A
// concrete MEF-XML loader is an external collaborator outside this
// module's scope; callers supply their own implementation and hand the
// resulting *mef.Model to Orchestrator.
type ModelLoader interface {
	Load(path string) (*mef.Model, error)
}

// ReportWriter serializes a completed analysis run (spec §6.2). The XML
// report schema is an external collaborator outside this module's
// scope; Orchestrator.Analyze returns plain Result values a caller's
// ReportWriter can format however it needs.
type ReportWriter interface {
	Write(results []Result) error
}

// SequenceResult is one synthesized event-tree sequence outcome, ready
// to be routed through the same qualitative/quantitative pipeline as a
// plain fault-tree top (spec §4.6 "a sequence synthesizes a gate from
// its collected formulas").
type SequenceResult struct {
	InitiatingEvent string
	Sequence        string

	// Gate is non-nil when at least one CollectFormula instruction was
	// present. Each collected formula becomes its own synthesized gate;
	// with one formula Gate is that gate, with several Gate is an AND over
	// them (spec §4.6 "conjunction of every CollectFormula").
	Gate *mef.Gate

	// ExpressionValue is the product of every CollectExpression
	// instruction's value, or 1.0 if there were none (spec §9 resolution:
	// this is always computed and always reported alongside Gate's
	// probability when both are present — see DESIGN.md).
	ExpressionValue float64
	HasExpression   bool

	// HouseInstructions collects every SetHouse instruction walked on the
	// path to this sequence, applied as a BuildOptions.HouseState override
	// scoped to this sequence's analysis (spec §4.6).
	HouseInstructions []mef.SetHouseEvent
}

// EventTreeAnalyzer synthesizes SequenceResults from an EventTree (spec
// §4.6). DefaultEventTreeAnalyzer is the in-process implementation this
// package ships; a host application may substitute its own (e.g. one
// that actually walks functional-event branch logic rather than the
// flattened per-sequence instruction list this module's mef.Sequence
// already carries).
type EventTreeAnalyzer interface {
	Analyze(ie *mef.InitiatingEvent) ([]SequenceResult, error)
}
