package bufarray

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/resource"
	"github.com/hupe1980/bufarray/internal/segment"
)

var (
	// ErrIndexOutOfBounds is returned for an index or range outside the array.
	ErrIndexOutOfBounds = dense.ErrIndexOutOfBounds
	// ErrInvalidStep is returned for a range step below 1.
	ErrInvalidStep = dense.ErrInvalidStep
	// ErrOperandMismatch is returned when an operand is shorter than the range limit.
	ErrOperandMismatch = dense.ErrOperandMismatch
	// ErrClosed is returned by every operation on a closed array.
	ErrClosed = dense.ErrClosed

	// ErrInvalidShape is returned for negative dimensions or an element count
	// that does not fit in an int64.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrIO is returned when the backing file cannot be opened, grown or mapped.
	ErrIO = errors.New("io failure")
	// ErrMemoryLimitExceeded is returned when heap storage would exceed the
	// configured memory limit.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
)

// IOError describes a failed operation on the backing file.
//
// It matches ErrIO and the underlying OS error through errors.Is.
type IOError struct {
	Op     string
	Path   string
	Offset int64
	Length int64
	Err    error
}

func (e *IOError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s [%d, %d): %v", e.Op, e.Path, e.Offset, e.Offset+e.Length, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// ShapeError indicates an invalid shape.
type ShapeError struct {
	Shape  Shape
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid shape %s: %s", e.Shape, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrInvalidShape }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ioe *segment.IOError
	if errors.As(err, &ioe) {
		return &IOError{Op: ioe.Op, Path: ioe.Path, Offset: ioe.Offset, Length: ioe.Length, Err: ioe.Err}
	}
	if errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrMemoryLimitExceeded, err)
	}

	return err
}
