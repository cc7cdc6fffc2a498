package bufarray

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/bufarray/dense"
)

// Shape lists the extent of each dimension. Elements are laid out in
// column-major order: the first dimension varies fastest.
type Shape []int64

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// Count returns the number of elements, the product of all dimensions.
func (s Shape) Count() (int64, error) {
	if len(s) == 0 {
		return 0, &ShapeError{Shape: s, Reason: "no dimensions"}
	}
	count := int64(1)
	for _, d := range s {
		if d < 0 {
			return 0, &ShapeError{Shape: s, Reason: "negative dimension"}
		}
		if d != 0 && count > math.MaxInt64/d {
			return 0, &ShapeError{Shape: s, Reason: "element count overflows int64"}
		}
		count *= d
	}
	return count, nil
}

// Index converts a multi-dimensional index to the flat element index.
func (s Shape) Index(idx ...int64) (int64, error) {
	if len(idx) != len(s) {
		return 0, fmt.Errorf("%w: %d indices for rank %d", ErrIndexOutOfBounds, len(idx), len(s))
	}
	var flat int64
	for d := len(s) - 1; d >= 0; d-- {
		if err := dense.CheckIndex(idx[d], s[d]); err != nil {
			return 0, err
		}
		flat = flat*s[d] + idx[d]
	}
	return flat, nil
}

// Coordinates converts a flat element index back to a multi-dimensional index.
func (s Shape) Coordinates(flat int64) ([]int64, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	if err := dense.CheckIndex(flat, count); err != nil {
		return nil, err
	}
	idx := make([]int64, len(s))
	for d, n := range s {
		idx[d] = flat % n
		flat /= n
	}
	return idx, nil
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return "[" + strings.Join(parts, "x") + "]"
}

func (s Shape) clone() Shape {
	return append(Shape(nil), s...)
}
