package kernel

import (
	"context"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/threshold"
)

// Aggregate visits the progression with aggregators created by newAgg, one
// per part, and merges them in index order.
func (e *Engine) Aggregate(ctx context.Context, a dense.Dense, first, limit, step int64, newAgg func() dense.Aggregator) (float64, error) {
	if err := dense.CheckRange(first, limit, step, a.Count()); err != nil {
		return 0, err
	}
	parts := e.partition(threshold.AggregateAll, first, limit, step)
	aggs := make([]dense.Aggregator, len(parts))
	err := e.run(ctx, parts, func(i int, p part) error {
		aggs[i] = newAgg()
		return a.Visit(p.first, p.limit, step, aggs[i])
	})
	if err != nil {
		return 0, err
	}
	result := aggs[0]
	for _, agg := range aggs[1:] {
		result.Merge(agg)
	}
	return result.Result(), nil
}

// Sum returns the sum of the progression.
func (e *Engine) Sum(ctx context.Context, a dense.Dense, first, limit, step int64) (float64, error) {
	return e.Aggregate(ctx, a, first, limit, step, func() dense.Aggregator { return &dense.Sum{} })
}

// NormInf returns the largest absolute value of the progression.
func (e *Engine) NormInf(ctx context.Context, a dense.Dense, first, limit, step int64) (float64, error) {
	return e.Aggregate(ctx, a, first, limit, step, func() dense.Aggregator { return &dense.Largest{} })
}

// ModifyAll replaces every element x of a with fn(x).
func (e *Engine) ModifyAll(ctx context.Context, a dense.Dense, fn dense.Unary) error {
	n := a.Count()
	return e.run(ctx, e.partition(threshold.ModifyAll, 0, n, 1), func(_ int, p part) error {
		return a.Modify(p.first, p.limit, 1, fn)
	})
}

// FillMatchingBoth sets dst[i] = fn(left[i], right[i]) for every element of dst.
func (e *Engine) FillMatchingBoth(ctx context.Context, dst dense.Dense, left dense.Source, fn dense.Binary, right dense.Source) error {
	n := dst.Count()
	if err := dense.CheckOperand(left, n); err != nil {
		return err
	}
	if err := dense.CheckOperand(right, n); err != nil {
		return err
	}
	return e.run(ctx, e.partition(threshold.FillMatchingBoth, 0, n, 1), func(_ int, p part) error {
		return dst.Apply(p.first, p.limit, 1, left, fn, right)
	})
}

// AXPY sets y[i] += alpha*x[i] for every element of y.
func (e *Engine) AXPY(ctx context.Context, alpha float64, x dense.Source, y dense.Dense) error {
	n := y.Count()
	if err := dense.CheckOperand(x, n); err != nil {
		return err
	}
	axpy := func(yv, xv float64) float64 { return yv + alpha*xv }
	return e.run(ctx, e.partition(threshold.AXPY, 0, n, 1), func(_ int, p part) error {
		return y.Apply(p.first, p.limit, 1, y, axpy, x)
	})
}
