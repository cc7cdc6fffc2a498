package dense

// Dense is the operation set every storage variant implements.
//
// Implementations run each ranged operation sequentially in ascending index
// order. Concurrent use of disjoint ranges is safe only when the variant
// documents it; concurrent writes to the same index are never synchronized.
type Dense interface {
	Source

	// Get returns the value at index.
	Get(index int64) (float64, error)
	// Set stores value at index.
	Set(index int64, value float64) error

	// Fill writes value to first, first+step, ... while < limit.
	Fill(first, limit, step int64, value float64) error
	// FillFunc writes supplier() to each index of the progression, calling
	// supplier once per index in ascending order.
	FillFunc(first, limit, step int64, supplier Supplier) error

	// Modify replaces each element x of the progression with fn(x).
	Modify(first, limit, step int64, fn Unary) error
	// Transform writes fn(source[i]) for each index i of the progression.
	// Operands that report Closed() true fail with ErrClosed.
	Transform(first, limit, step int64, source Source, fn Unary) error
	// Apply writes fn(left[i], right[i]) for each index i of the progression.
	// Either operand may be a Scalar or the receiver itself.
	Apply(first, limit, step int64, left Source, fn Binary, right Source) error

	// Visit feeds each element of the progression to v in ascending order.
	Visit(first, limit, step int64, v Visitor) error

	// Exchange swaps the runs firstA+k*step and firstB+k*step for k in [0, count).
	Exchange(firstA, firstB, step, count int64) error

	// SearchAscending binary searches sorted storage. It returns the index of a
	// matching element and true, or the insertion point and false. A closed
	// array returns (-1, false), the only negative result.
	SearchAscending(value float64) (int64, bool)
	// SortAscending sorts the whole array in ascending order.
	SortAscending() error
	// IndexOfLargest returns the index of the element with the largest absolute
	// value in the progression; ties resolve to the earliest index. It returns
	// -1 for an empty progression.
	IndexOfLargest(first, limit, step int64) (int64, error)

	// Close releases backing resources. It is idempotent.
	Close() error
}

// Flusher is implemented by file-backed variants that can write dirty pages
// back to the underlying file.
type Flusher interface {
	Flush() error
}
