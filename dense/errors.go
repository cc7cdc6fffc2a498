package dense

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfBounds is returned when an index or range falls outside [0, Count()).
	ErrIndexOutOfBounds = errors.New("dense: index out of bounds")

	// ErrInvalidStep is returned when a range stride is not positive.
	ErrInvalidStep = errors.New("dense: step must be positive")

	// ErrOperandMismatch is returned when an operand is shorter than the range limit.
	ErrOperandMismatch = errors.New("dense: operand too short")

	// ErrClosed is returned when an array is used after Close.
	ErrClosed = errors.New("dense: array is closed")
)

// IndexError describes a bounds violation.
type IndexError struct {
	Index int64
	Count int64
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dense: index %d out of bounds [0, %d)", e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfBounds }

// RangeError describes an invalid range request.
type RangeError struct {
	First int64
	Limit int64
	Step  int64
	Count int64
	cause error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("dense: invalid range [%d, %d) step %d for count %d: %v",
		e.First, e.Limit, e.Step, e.Count, e.cause)
}

func (e *RangeError) Unwrap() error { return e.cause }
