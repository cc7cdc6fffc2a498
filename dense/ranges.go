package dense

import "math"

// CheckIndex validates index against count.
func CheckIndex(index, count int64) error {
	if index < 0 || index >= count {
		return &IndexError{Index: index, Count: count}
	}
	return nil
}

// CheckRange validates a (first, limit, step) progression against count.
// An empty progression (first == limit) is valid. Any positive step is
// accepted, including steps larger than the range.
func CheckRange(first, limit, step, count int64) error {
	if step < 1 {
		return &RangeError{First: first, Limit: limit, Step: step, Count: count, cause: ErrInvalidStep}
	}
	if first < 0 || limit > count || first > limit {
		return &RangeError{First: first, Limit: limit, Step: step, Count: count, cause: ErrIndexOutOfBounds}
	}
	return nil
}

// CheckOperand validates that src can be read at every index below limit.
// A source reporting itself closed fails with ErrClosed.
func CheckOperand(src Source, limit int64) error {
	if src == nil {
		return ErrOperandMismatch
	}
	if c, ok := src.(interface{ Closed() bool }); ok && c.Closed() {
		return ErrClosed
	}
	if src.Count() < limit {
		return ErrOperandMismatch
	}
	return nil
}

// Steps returns the number of indices in the progression.
func Steps(first, limit, step int64) int64 {
	if first >= limit || step < 1 {
		return 0
	}
	return (limit-first-1)/step + 1
}

// FirstAtOrAfter returns the first index of the progression starting at first
// that is >= base. The result may exceed any limit; callers compare it. It
// saturates at math.MaxInt64 instead of wrapping.
func FirstAtOrAfter(first, step, base int64) int64 {
	if first >= base {
		return first
	}
	k := (base-first-1)/step + 1
	if k > (math.MaxInt64-first)/step {
		return math.MaxInt64
	}
	return first + k*step
}

// CheckRun validates a run of count indices first, first+step, ... against n.
func CheckRun(first, step, count, n int64) error {
	if step < 1 {
		return &RangeError{First: first, Limit: first, Step: step, Count: n, cause: ErrInvalidStep}
	}
	if count < 0 || first < 0 {
		return &RangeError{First: first, Limit: first, Step: step, Count: n, cause: ErrIndexOutOfBounds}
	}
	if count == 0 {
		return nil
	}
	// Compare by division: first+(count-1)*step may overflow.
	if first >= n || count-1 > (n-1-first)/step {
		return &RangeError{First: first, Limit: runLimit(first, step, count), Step: step, Count: n, cause: ErrIndexOutOfBounds}
	}
	return nil
}

// runLimit is one past the last index of a run, saturating at math.MaxInt64.
func runLimit(first, step, count int64) int64 {
	if count-1 > (math.MaxInt64-1-first)/step {
		return math.MaxInt64
	}
	return first + (count-1)*step + 1
}
