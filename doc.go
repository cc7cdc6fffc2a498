// Package bufarray provides float64 arrays that can be larger than a single
// allocation or memory mapping.
//
// An array is stored either on the heap or in a file mapped read-write into
// memory. Arrays with more elements than the segment threshold are split
// into equally sized segments that are addressed as one flat array.
//
// # Quick Start
//
// In memory:
//
//	a, _ := bufarray.New2D(1000, 1000)
//	defer a.Close()
//	_ = a.SetAt(3.5, 10, 20)              // row 10, column 20
//	_ = a.Fill(0, a.Count(), 1, 1.0)      // every element
//
// Backed by a file:
//
//	ctx := context.Background()
//	a, _ := bufarray.Open1D(ctx, "./data.bin", 1<<30)
//	defer a.Close()
//	_ = a.Apply(0, a.Count(), 1, a, dense.Multiply, dense.Scalar(2))
//	_ = a.Flush()
//
// Reopening the same file with the same shape yields the stored values. The
// file has no header: it holds count*8 bytes of float64 values in native byte
// order, in flat index order.
//
// # Layout
//
// Multi-dimensional indices are column-major: the first dimension varies
// fastest. For a rows x columns matrix, element (r, c) has flat index
// r + c*rows.
//
// # Operations
//
// Array implements [dense.Dense]: ranged fill, modify, visit and exchange with
// a stride, binary search, sort and index of the largest magnitude. See
// package dense for the range and operand rules.
//
// # Errors
//
// Errors match the sentinels of this package through errors.Is:
// [ErrIndexOutOfBounds], [ErrInvalidStep], [ErrOperandMismatch],
// [ErrClosed], [ErrInvalidShape], [ErrIO] and [ErrMemoryLimitExceeded].
// File failures are reported as [*IOError], which also matches the
// underlying OS error. Construction either returns a fully usable array or
// an error with every partially created segment released.
//
// # Lifecycle
//
// Close releases memory, mappings and the file exactly once. An array that
// becomes unreachable while still open is released by the garbage collector
// and a warning is logged, but callers must not rely on it.
package bufarray
