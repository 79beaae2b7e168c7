// Package expr provides the deterministic and random numeric expression
// algebra used to supply basic-event probabilities, parameter values, and
// mission time to the analytical core.
//
// Every Expression exposes Value, Sample, Reset and Interval. Deterministic
// expressions (Constant, Parameter, arithmetic combinators) return the same
// value from Sample as from Value. Random deviates (Uniform, Normal,
// Lognormal, Gamma, Beta, Histogram) draw one value per Sample call and
// cache it until Reset clears the cache, recursively over the expression
// tree.
//
// Errors:
//
//	ErrDomain    - a constructor argument violates its required domain.
//	ErrInterval  - Ensure* validation found a value/interval outside bounds.
package expr

import "errors"

// ErrDomain indicates a numeric domain violation at construction time
// (e.g. Normal(sigma<=0), Gamma(k<=0), Beta(alpha<=0)).
var ErrDomain = errors.New("expr: domain error")

// ErrInterval indicates an Ensure* validator rejected a computed interval.
var ErrInterval = errors.New("expr: interval validation failed")

// ErrNonIncreasing indicates Histogram boundaries were not strictly increasing.
var ErrNonIncreasing = errors.New("expr: histogram boundaries not strictly increasing")

// ErrNegativeWeight indicates a Histogram weight was negative.
var ErrNegativeWeight = errors.New("expr: histogram weight is negative")
