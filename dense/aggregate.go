package dense

import "math"

// Visitor receives values from Visit.
type Visitor interface {
	Invoke(value float64)
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(value float64)

// Invoke implements Visitor.
func (f VisitorFunc) Invoke(value float64) { f(value) }

// Aggregator is a stateful Visitor with a result.
type Aggregator interface {
	Visitor
	// Result returns the aggregate of all values seen since the last Reset.
	Result() float64
	// Reset restores the initial state.
	Reset()
	// Merge folds the state of another aggregator of the same kind into this one.
	Merge(other Aggregator)
}

// Sum accumulates the sum of visited values.
type Sum struct{ value float64 }

func (s *Sum) Invoke(v float64)       { s.value += v }
func (s *Sum) Result() float64        { return s.value }
func (s *Sum) Reset()                 { s.value = 0 }
func (s *Sum) Merge(other Aggregator) { s.value += other.Result() }

// SumOfSquares accumulates the sum of squared values.
type SumOfSquares struct{ value float64 }

func (s *SumOfSquares) Invoke(v float64)       { s.value += v * v }
func (s *SumOfSquares) Result() float64        { return s.value }
func (s *SumOfSquares) Reset()                 { s.value = 0 }
func (s *SumOfSquares) Merge(other Aggregator) { s.value += other.Result() }

// Product accumulates the product of visited values.
type Product struct {
	value float64
	seen  bool
}

func (p *Product) Invoke(v float64) {
	if !p.seen {
		p.value, p.seen = v, true
		return
	}
	p.value *= v
}

// Result returns 1 when nothing was visited.
func (p *Product) Result() float64 {
	if !p.seen {
		return 1
	}
	return p.value
}

func (p *Product) Reset() { p.value, p.seen = 0, false }

func (p *Product) Merge(other Aggregator) {
	if o, ok := other.(*Product); ok && !o.seen {
		return
	}
	p.Invoke(other.Result())
}

// Largest tracks the largest absolute value.
type Largest struct{ value float64 }

func (l *Largest) Invoke(v float64) {
	if a := math.Abs(v); a > l.value {
		l.value = a
	}
}

func (l *Largest) Result() float64        { return l.value }
func (l *Largest) Reset()                 { l.value = 0 }
func (l *Largest) Merge(other Aggregator) { l.Invoke(other.Result()) }

// Smallest tracks the smallest non-zero absolute value. Result is +Inf when
// no non-zero value was visited.
type Smallest struct {
	value float64
	seen  bool
}

func (s *Smallest) Invoke(v float64) {
	a := math.Abs(v)
	if a == 0 {
		return
	}
	if !s.seen || a < s.value {
		s.value, s.seen = a, true
	}
}

func (s *Smallest) Result() float64 {
	if !s.seen {
		return math.Inf(1)
	}
	return s.value
}

func (s *Smallest) Reset() { s.value, s.seen = 0, false }

func (s *Smallest) Merge(other Aggregator) {
	if r := other.Result(); !math.IsInf(r, 1) {
		s.Invoke(r)
	}
}
