package segment

import (
	"errors"
	"fmt"
)

// ErrIO marks failures to create, grow or map the backing file.
var ErrIO = errors.New("segment: io failure")

// IOError describes a failed file operation on a byte range.
type IOError struct {
	Op     string
	Path   string
	Offset int64
	Length int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("segment: %s %s [%d, %d): %v", e.Op, e.Path, e.Offset, e.Offset+e.Length, e.Err)
}

// Unwrap exposes both ErrIO and the underlying cause.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
