package dense

import "math"

// Source is a read-only, indexable operand.
//
// Value performs no bounds checking beyond what the underlying storage does;
// callers validate ranges first.
type Source interface {
	Count() int64
	Value(index int64) float64
}

// Scalar is a Source returning the same value at every index.
type Scalar float64

// Count implements Source. A scalar matches any range.
func (s Scalar) Count() int64 { return math.MaxInt64 }

// Value implements Source.
func (s Scalar) Value(int64) float64 { return float64(s) }

// Float64s adapts a slice to Source.
type Float64s []float64

// Count implements Source.
func (f Float64s) Count() int64 { return int64(len(f)) }

// Value implements Source.
func (f Float64s) Value(index int64) float64 { return f[index] }

// Unary maps one value to another.
type Unary func(x float64) float64

// Binary combines two values.
type Binary func(left, right float64) float64

// Supplier produces values for FillFunc. It may have side effects.
type Supplier func() float64

// Common functions.
var (
	Add      Binary = func(l, r float64) float64 { return l + r }
	Subtract Binary = func(l, r float64) float64 { return l - r }
	Multiply Binary = func(l, r float64) float64 { return l * r }
	Divide   Binary = func(l, r float64) float64 { return l / r }
	Negate   Unary  = func(x float64) float64 { return -x }
	Abs      Unary  = math.Abs
)
