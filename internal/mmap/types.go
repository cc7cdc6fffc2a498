package mmap

import "errors"

// AccessPattern is an advisory hint about how a mapping will be read.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects data to be accessed sequentially.
	AccessSequential
	// AccessRandom expects data to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects data to be accessed in the near future.
	AccessWillNeed
	// AccessDontNeed expects data to not be accessed in the near future.
	AccessDontNeed
)

var patternNames = [...]string{
	AccessDefault:    "default",
	AccessSequential: "sequential",
	AccessRandom:     "random",
	AccessWillNeed:   "willneed",
	AccessDontNeed:   "dontneed",
}

func (p AccessPattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return "unknown"
	}
	return patternNames[p]
}

// Fder is implemented by open files that expose their descriptor.
type Fder interface {
	Fd() uintptr
}

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the requested length is negative or too large.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrInvalidOffset is returned when the offset is invalid (e.g. negative).
	ErrInvalidOffset = errors.New("mmap: invalid offset")
	// ErrMisaligned is returned when a float64 view is requested over a range
	// whose length is not a multiple of 8.
	ErrMisaligned = errors.New("mmap: range not aligned to 8 bytes")
)
