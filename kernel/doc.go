// Package kernel runs elementwise kernels over dense arrays.
//
// Each kernel consults a [threshold.Registry]: below the kernel's threshold
// it runs sequentially on the calling goroutine; at or above it the range is
// split into contiguous parts that run concurrently, bounded by the engine's
// worker limit. Aggregates are merged in index order.
//
//	e := kernel.NewEngine(kernel.WithWorkers(4))
//	sum, err := e.Sum(ctx, a, 0, a.Count(), 1)
//
// Sparse index sets are roaring bitmaps:
//
//	idx := e.Where(a, 0, a.Count(), 1, func(x float64) bool { return x < 0 })
//	values, err := e.Gather(a, idx)
package kernel
