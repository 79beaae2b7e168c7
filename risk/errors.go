// Package risk implements the risk-analysis orchestrator (spec §4.5,
// §4.6, C9): it applies alignment/phase context, walks event trees,
// routes each target gate through preprocess/{mocus,zbdd,bdd}/quant,
// and assembles the per-target Result records the reporter boundary
// (spec §6.2) consumes. The MEF loader and the XML report writer are
// external collaborators (spec §6.1, §6.2); this package only defines
// the interface shapes they must satisfy (boundary.go) and ships a
// default in-process EventTreeAnalyzer since XML is out of scope.
package risk

import "errors"

// Kind classifies an AnalysisError per spec §7's error taxonomy.
type Kind int

const (
	// SettingsError: invalid or conflicting configuration, caught before
	// analysis starts.
	SettingsError Kind = iota
	// ValidityError: model-level structural violation.
	ValidityError
	// DomainError: numeric domain violation.
	DomainError
	// LogicError: internal-consistency violation; should not be
	// reachable with a validated model.
	LogicError
)

func (k Kind) String() string {
	switch k {
	case SettingsError:
		return "SettingsError"
	case ValidityError:
		return "ValidityError"
	case DomainError:
		return "DomainError"
	case LogicError:
		return "LogicError"
	default:
		return "UnknownError"
	}
}

// AnalysisError carries the diagnostic context spec §7 requires once
// analysis is underway: which phase and target were running and any
// extra detail, wrapping the underlying cause.
type AnalysisError struct {
	Kind   Kind
	Phase  string
	Target string
	Extra  string
	Err    error
}

func (e *AnalysisError) Error() string {
	msg := "risk: " + e.Kind.String()
	if e.Phase != "" {
		msg += " in " + e.Phase
	}
	if e.Target != "" {
		msg += " (target " + e.Target + ")"
	}
	if e.Extra != "" {
		msg += ": " + e.Extra
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Sentinel errors for Settings.Validate (spec §6.3 "Applying mutually
// exclusive flags ... raises a validation error before analysis
// starts").
var (
	// ErrApproximationAlgorithmMismatch indicates approximation=None was
	// requested with a non-BDD algorithm, or a non-None approximation was
	// requested with BDD (spec §6.3: "only None is valid with BDD").
	ErrApproximationAlgorithmMismatch = errors.New("risk: approximation is only compatible with its matching algorithm")

	// ErrPrimeImplicantsRequiresBDD indicates prime_implicants=true was
	// requested with an algorithm other than BDD (spec §4.3.2).
	ErrPrimeImplicantsRequiresBDD = errors.New("risk: prime_implicants requires algorithm=BDD")

	// ErrSILRequiresTimeStep indicates safety_integrity_levels=true was
	// requested with time_step<=0 (spec §6.3).
	ErrSILRequiresTimeStep = errors.New("risk: safety_integrity_levels requires time_step > 0")

	// ErrCompilationLevelRange indicates compilation_level fell outside
	// [0, 8] (spec §6.3). Only Settings.Validate checks it: the
	// orchestrator does not pass CompilationLevel to the preprocessor,
	// which picks its level from the analysis target.
	ErrCompilationLevelRange = errors.New("risk: compilation_level must be in [0, 8]")

	// ErrNegativeMissionTime indicates mission_time < 0 (spec §7 DomainError).
	ErrNegativeMissionTime = errors.New("risk: mission_time must be >= 0")

	// ErrUnknownAlgorithm / ErrUnknownApproximation indicate an
	// unrecognized enum value was set directly rather than through a
	// constructor.
	ErrUnknownAlgorithm     = errors.New("risk: unknown algorithm")
	ErrUnknownApproximation = errors.New("risk: unknown approximation")

	// ErrNoEventTree indicates Orchestrator.Analyze (or an
	// EventTreeAnalyzer) was asked to synthesize sequences for an
	// InitiatingEvent with no attached EventTree.
	ErrNoEventTree = errors.New("risk: initiating event has no event tree")

	// ErrNoTops indicates a model has neither fault-tree tops nor
	// initiating events to analyze.
	ErrNoTops = errors.New("risk: model has no fault-tree tops or initiating events")
)
