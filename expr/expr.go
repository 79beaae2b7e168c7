package expr

import "fmt"

// Interval is a closed worst-case envelope [Low, High].
type Interval struct {
	Low  float64
	High float64
}

// Expression is the capability every probability/parameter/mission-time
// value in the model must implement.
type Expression interface {
	// Value returns the current deterministic value using current
	// parameter state (e.g. the current MissionTime).
	Value() float64

	// Sample draws a value; the result is cached until the next Reset.
	// Deterministic (non-deviate) expressions return Value().
	Sample() float64

	// Reset clears any sampled cache, recursively through children.
	Reset()

	// Interval returns the worst-case [lo, hi] envelope.
	Interval() Interval

	// IsDeviate reports whether any leaf of this expression is a random
	// deviate (and therefore participates in uncertainty analysis).
	IsDeviate() bool
}

// Constant is a fixed, non-random value.
type Constant struct{ V float64 }

// NewConstant returns an Expression that always evaluates to v.
func NewConstant(v float64) *Constant { return &Constant{V: v} }

func (c *Constant) Value() float64     { return c.V }
func (c *Constant) Sample() float64    { return c.V }
func (c *Constant) Reset()             {}
func (c *Constant) Interval() Interval { return Interval{c.V, c.V} }
func (c *Constant) IsDeviate() bool    { return false }

// Parameter is a named proxy to another Expression, resolved by indirection
// so that changing the underlying Expression (e.g. MissionTime.Set) is
// visible to every Formula referencing the Parameter.
type Parameter struct {
	Name string
	Expr Expression
}

// NewParameter wraps expr behind a named, mutable indirection.
func NewParameter(name string, e Expression) *Parameter {
	return &Parameter{Name: name, Expr: e}
}

func (p *Parameter) Value() float64     { return p.Expr.Value() }
func (p *Parameter) Sample() float64    { return p.Expr.Sample() }
func (p *Parameter) Reset()             { p.Expr.Reset() }
func (p *Parameter) Interval() Interval { return p.Expr.Interval() }
func (p *Parameter) IsDeviate() bool    { return p.Expr.IsDeviate() }

// MissionTime is a special Parameter: its value is mutated by the
// risk-analysis orchestrator when applying a phase (spec §4.5) and is not a
// random deviate.
type MissionTime struct{ hours float64 }

// NewMissionTime constructs a MissionTime expression at the given hours.
func NewMissionTime(hours float64) *MissionTime { return &MissionTime{hours: hours} }

func (m *MissionTime) Value() float64     { return m.hours }
func (m *MissionTime) Sample() float64    { return m.hours }
func (m *MissionTime) Reset()             {}
func (m *MissionTime) Interval() Interval { return Interval{m.hours, m.hours} }
func (m *MissionTime) IsDeviate() bool    { return false }

// Set mutates the mission time in place; used only by the orchestrator's
// scoped phase application (spec §4.5, §5).
func (m *MissionTime) Set(hours float64) { m.hours = hours }

// EnsureProbability validates that e.Interval() lies within [0, 1].
func EnsureProbability(e Expression) error {
	return EnsureWithin(e, Interval{0, 1})
}

// EnsurePositive validates that e.Interval().Low > 0.
func EnsurePositive(e Expression) error {
	iv := e.Interval()
	if iv.Low <= 0 {
		return fmt.Errorf("expr: EnsurePositive: interval [%g, %g]: %w", iv.Low, iv.High, ErrInterval)
	}
	return nil
}

// EnsureNonNegative validates that e.Interval().Low >= 0.
func EnsureNonNegative(e Expression) error {
	iv := e.Interval()
	if iv.Low < 0 {
		return fmt.Errorf("expr: EnsureNonNegative: interval [%g, %g]: %w", iv.Low, iv.High, ErrInterval)
	}
	return nil
}

// EnsureWithin validates that e.Interval() is a subset of bound.
func EnsureWithin(e Expression, bound Interval) error {
	iv := e.Interval()
	if iv.Low < bound.Low || iv.High > bound.High {
		return fmt.Errorf("expr: EnsureWithin: interval [%g, %g] outside [%g, %g]: %w",
			iv.Low, iv.High, bound.Low, bound.High, ErrInterval)
	}
	return nil
}
