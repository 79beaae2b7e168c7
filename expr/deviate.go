package expr

import (
	"fmt"
	"math"
)

// deviate holds the common sampled-value cache shared by every random
// deviate Expression: Sample() draws once and memoizes until Reset().
type deviate struct {
	src    *Source
	cached bool
	value  float64
}

func (d *deviate) Reset() {
	d.cached = false
}

func (d *deviate) IsDeviate() bool { return true }

func (d *deviate) sampleOnce(draw func() float64) float64 {
	if !d.cached {
		d.value = draw()
		d.cached = true
	}
	return d.value
}

// Uniform draws uniformly from [Min, Max].
type Uniform struct {
	deviate
	Min, Max float64
}

// NewUniform constructs a Uniform(min, max) deviate. Requires min < max.
func NewUniform(src *Source, min, max float64) (*Uniform, error) {
	if !(min < max) {
		return nil, fmt.Errorf("expr: Uniform(min=%g, max=%g): %w", min, max, ErrDomain)
	}
	return &Uniform{deviate: deviate{src: src}, Min: min, Max: max}, nil
}

func (u *Uniform) Value() float64  { return (u.Min + u.Max) / 2 }
func (u *Uniform) Interval() Interval { return Interval{u.Min, u.Max} }
func (u *Uniform) Sample() float64 {
	return u.sampleOnce(func() float64 { return u.Min + u.src.Float64()*(u.Max-u.Min) })
}

// Normal draws from a Normal(Mu, Sigma) distribution. Interval() reports
// Mu±6σ for downstream domain checks; Sample does not clamp to it.
type Normal struct {
	deviate
	Mu, Sigma float64
}

// NewNormal constructs a Normal(mu, sigma) deviate. Requires sigma > 0.
func NewNormal(src *Source, mu, sigma float64) (*Normal, error) {
	if !(sigma > 0) {
		return nil, fmt.Errorf("expr: Normal(sigma=%g): %w", sigma, ErrDomain)
	}
	return &Normal{deviate: deviate{src: src}, Mu: mu, Sigma: sigma}, nil
}

func (n *Normal) Value() float64 { return n.Mu }
func (n *Normal) Interval() Interval {
	return Interval{n.Mu - 6*n.Sigma, n.Mu + 6*n.Sigma}
}
func (n *Normal) Sample() float64 {
	return n.sampleOnce(func() float64 { return n.Mu + n.Sigma*n.src.NormFloat64() })
}

// Lognormal draws from a lognormal distribution. Construct either from
// (Mu, Sigma) of the underlying normal, or from (Mean, EF, Level) — the
// mean and error-factor at a given confidence level — per spec §4.1.
type Lognormal struct {
	deviate
	Mu, Sigma float64
}

// NewLognormal constructs a Lognormal from the underlying normal's
// parameters. Requires sigma > 0.
func NewLognormal(src *Source, mu, sigma float64) (*Lognormal, error) {
	if !(sigma > 0) {
		return nil, fmt.Errorf("expr: Lognormal(sigma=%g): %w", sigma, ErrDomain)
	}
	return &Lognormal{deviate: deviate{src: src}, Mu: mu, Sigma: sigma}, nil
}

// zQuantile returns the standard-normal quantile for common confidence
// levels used by PRA error factors (0.90 -> 1.645, 0.95 -> 1.96, 0.99 -> 2.576).
// Falls back to the 95% quantile for unrecognized levels, matching the
// original engine's default EF interpretation.
func zQuantile(level float64) float64 {
	switch {
	case math.Abs(level-0.90) < 1e-9:
		return 1.6448536269514722
	case math.Abs(level-0.99) < 1e-9:
		return 2.5758293035489004
	default:
		return 1.959963984540054
	}
}

// NewLognormalFromMeanEF constructs a Lognormal from its arithmetic mean,
// error factor EF (> 1, the ratio of the upper confidence bound to the
// median), and confidence level (0, 1). Requires mean > 0, EF > 1,
// level in (0, 1).
func NewLognormalFromMeanEF(src *Source, mean, ef, level float64) (*Lognormal, error) {
	if !(mean > 0) {
		return nil, fmt.Errorf("expr: Lognormal(mean=%g): %w", mean, ErrDomain)
	}
	if !(ef > 1) {
		return nil, fmt.Errorf("expr: Lognormal(ef=%g): %w", ef, ErrDomain)
	}
	if !(level > 0 && level < 1) {
		return nil, fmt.Errorf("expr: Lognormal(level=%g): %w", level, ErrDomain)
	}
	z := zQuantile(level)
	sigma := math.Log(ef) / z
	// mean = exp(mu + sigma^2/2)  =>  mu = ln(mean) - sigma^2/2
	mu := math.Log(mean) - sigma*sigma/2
	return &Lognormal{deviate: deviate{src: src}, Mu: mu, Sigma: sigma}, nil
}

func (l *Lognormal) Value() float64 { return math.Exp(l.Mu + l.Sigma*l.Sigma/2) }
func (l *Lognormal) Interval() Interval {
	return Interval{math.Exp(l.Mu - 6*l.Sigma), math.Exp(l.Mu + 6*l.Sigma)}
}
func (l *Lognormal) Sample() float64 {
	return l.sampleOnce(func() float64 { return math.Exp(l.Mu + l.Sigma*l.src.NormFloat64()) })
}

// Gamma draws from a Gamma(K, Theta) distribution (shape K, scale Theta)
// via the Marsaglia-Tsang method; no distribution-sampling third-party
// library is present anywhere in the retrieval pack, so this is
// implemented on expr.Source (math/rand) directly — see DESIGN.md.
type Gamma struct {
	deviate
	K, Theta float64
}

// NewGamma constructs a Gamma(k, theta) deviate. Requires k > 0, theta > 0.
func NewGamma(src *Source, k, theta float64) (*Gamma, error) {
	if !(k > 0) {
		return nil, fmt.Errorf("expr: Gamma(k=%g): %w", k, ErrDomain)
	}
	if !(theta > 0) {
		return nil, fmt.Errorf("expr: Gamma(theta=%g): %w", theta, ErrDomain)
	}
	return &Gamma{deviate: deviate{src: src}, K: k, Theta: theta}, nil
}

func (g *Gamma) Value() float64 { return g.K * g.Theta }
func (g *Gamma) Interval() Interval {
	sd := math.Sqrt(g.K) * g.Theta
	lo := g.Value() - 6*sd
	if lo < 0 {
		lo = 0
	}
	return Interval{lo, g.Value() + 6*sd}
}
func (g *Gamma) Sample() float64 {
	return g.sampleOnce(func() float64 { return sampleGammaShapeScale(g.src, g.K, g.Theta) })
}

// sampleGammaShapeScale implements Marsaglia & Tsang (2000): for k < 1,
// boost the shape by one and correct with a uniform power draw.
func sampleGammaShapeScale(src *Source, k, theta float64) float64 {
	if k < 1 {
		u := src.Float64()
		return sampleGammaShapeScale(src, k+1, theta) * math.Pow(u, 1/k)
	}
	d := k - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = src.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := src.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v * theta
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v * theta
		}
	}
}

// Beta draws from a Beta(Alpha, Beta) distribution via two Gamma draws
// (X/(X+Y) with X~Gamma(alpha,1), Y~Gamma(beta,1)).
type Beta struct {
	deviate
	Alpha, Betaparam float64
}

// NewBeta constructs a Beta(alpha, beta) deviate. Requires alpha > 0, beta > 0.
func NewBeta(src *Source, alpha, beta float64) (*Beta, error) {
	if !(alpha > 0) {
		return nil, fmt.Errorf("expr: Beta(alpha=%g): %w", alpha, ErrDomain)
	}
	if !(beta > 0) {
		return nil, fmt.Errorf("expr: Beta(beta=%g): %w", beta, ErrDomain)
	}
	return &Beta{deviate: deviate{src: src}, Alpha: alpha, Betaparam: beta}, nil
}

func (b *Beta) Value() float64     { return b.Alpha / (b.Alpha + b.Betaparam) }
func (b *Beta) Interval() Interval { return Interval{0, 1} }
func (b *Beta) Sample() float64 {
	return b.sampleOnce(func() float64 {
		x := sampleGammaShapeScale(b.src, b.Alpha, 1)
		y := sampleGammaShapeScale(b.src, b.Betaparam, 1)
		return x / (x + y)
	})
}

// Histogram draws from a piecewise-constant density over strictly
// increasing Boundaries, with one Weight per bucket
// (len(Weights) == len(Boundaries)-1).
type Histogram struct {
	deviate
	Boundaries []float64
	Weights    []float64
	totalW     float64
}

// NewHistogram constructs a Histogram deviate. Boundaries must be
// strictly increasing and Weights must be non-negative, with
// len(Weights) == len(Boundaries)-1.
func NewHistogram(src *Source, boundaries, weights []float64) (*Histogram, error) {
	if len(boundaries) < 2 || len(weights) != len(boundaries)-1 {
		return nil, fmt.Errorf("expr: Histogram: need len(weights)==len(boundaries)-1: %w", ErrDomain)
	}
	for i := 1; i < len(boundaries); i++ {
		if !(boundaries[i] > boundaries[i-1]) {
			return nil, fmt.Errorf("expr: Histogram: boundaries[%d]=%g <= boundaries[%d]=%g: %w",
				i, boundaries[i], i-1, boundaries[i-1], ErrNonIncreasing)
		}
	}
	var total float64
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("expr: Histogram: weights[%d]=%g: %w", i, w, ErrNegativeWeight)
		}
		total += w
	}
	bcopy := append([]float64(nil), boundaries...)
	wcopy := append([]float64(nil), weights...)
	return &Histogram{deviate: deviate{src: src}, Boundaries: bcopy, Weights: wcopy, totalW: total}, nil
}

// Value returns the weight-weighted interval midpoint mean (spec §4.1).
func (h *Histogram) Value() float64 {
	if h.totalW == 0 {
		return (h.Boundaries[0] + h.Boundaries[len(h.Boundaries)-1]) / 2
	}
	var sum float64
	for i, w := range h.Weights {
		mid := (h.Boundaries[i] + h.Boundaries[i+1]) / 2
		sum += mid * w
	}
	return sum / h.totalW
}

func (h *Histogram) Interval() Interval {
	return Interval{h.Boundaries[0], h.Boundaries[len(h.Boundaries)-1]}
}

func (h *Histogram) Sample() float64 {
	return h.sampleOnce(func() float64 {
		if h.totalW == 0 {
			return h.Value()
		}
		r := h.src.Float64() * h.totalW
		var acc float64
		for i, w := range h.Weights {
			acc += w
			if r <= acc {
				lo, hi := h.Boundaries[i], h.Boundaries[i+1]
				return lo + h.src.Float64()*(hi-lo)
			}
		}
		last := len(h.Weights) - 1
		lo, hi := h.Boundaries[last], h.Boundaries[last+1]
		return lo + h.src.Float64()*(hi-lo)
	})
}
