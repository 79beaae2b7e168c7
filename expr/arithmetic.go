package expr

// binary composes two Expressions with a numeric operator. It is the
// building block for Sum, Difference, Product and Fraction below.
type binary struct {
	lhs, rhs Expression
	op       func(a, b float64) float64
}

func (b *binary) Value() float64  { return b.op(b.lhs.Value(), b.rhs.Value()) }
func (b *binary) Sample() float64 { return b.op(b.lhs.Sample(), b.rhs.Sample()) }
func (b *binary) Reset() {
	b.lhs.Reset()
	b.rhs.Reset()
}
func (b *binary) IsDeviate() bool { return b.lhs.IsDeviate() || b.rhs.IsDeviate() }

// Interval computes a conservative envelope over the four corner products;
// correct for monotone operators (+, -) and for * when both intervals are
// non-negative (the only combinations the model uses in practice).
func (b *binary) Interval() Interval {
	li, ri := b.lhs.Interval(), b.rhs.Interval()
	corners := [4]float64{
		b.op(li.Low, ri.Low), b.op(li.Low, ri.High),
		b.op(li.High, ri.Low), b.op(li.High, ri.High),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return Interval{lo, hi}
}

// Sum returns an Expression computing lhs + rhs.
func Sum(lhs, rhs Expression) Expression {
	return &binary{lhs, rhs, func(a, b float64) float64 { return a + b }}
}

// Difference returns an Expression computing lhs - rhs.
func Difference(lhs, rhs Expression) Expression {
	return &binary{lhs, rhs, func(a, b float64) float64 { return a - b }}
}

// Product returns an Expression computing lhs * rhs.
func Product(lhs, rhs Expression) Expression {
	return &binary{lhs, rhs, func(a, b float64) float64 { return a * b }}
}

// Fraction returns an Expression computing lhs / rhs.
func Fraction(lhs, rhs Expression) Expression {
	return &binary{lhs, rhs, func(a, b float64) float64 { return a / b }}
}
