// Package threshold holds the per-kernel cutovers between sequential and
// parallel execution.
//
// Numeric kernels consult a [Registry] with the size of their operand and run
// sequentially below the threshold:
//
//	if reg.Parallel(threshold.AXPY, n) {
//	    // fan out over disjoint ranges
//	}
//
// The registry never executes anything itself. The kernel set is fixed at
// compile time; values are adjusted only by clamping:
//
//   - [Registry.ClampMax] lowers thresholds, never raises them
//   - [Registry.ClampMin] raises thresholds, never lowers them
//   - [Registry.SetAll] applies both, leaving every kernel at exactly the value
//
// [Default] returns the process-wide registry. Setting the BUFARRAY_THRESHOLD
// environment variable applies SetAll to it at startup, which is handy for
// forcing the parallel paths in tests.
package threshold
