package mem

import "unsafe"

// Alignment is the byte alignment of heap-backed segments (one cache line).
const Alignment = 64

const (
	elemSize = int(unsafe.Sizeof(float64(0)))
	slack    = Alignment/elemSize - 1
)

// AllocAlignedFloat64 returns a zeroed slice of n float64 values whose first
// element starts on an Alignment boundary. Capacity equals n, so appends
// reallocate instead of running into the padding.
func AllocAlignedFloat64(n int) []float64 {
	if n <= 0 {
		return nil
	}

	// Go aligns float64 backing arrays to 8 bytes; at most slack elements
	// are skipped to reach the next cache line.
	buf := make([]float64, n+slack)
	skip := 0
	for !IsAligned(buf[skip:]) {
		skip++
	}
	return buf[skip : skip+n : skip+n]
}

// IsAligned reports whether s starts on an Alignment boundary. Empty slices
// are aligned.
func IsAligned(s []float64) bool {
	if len(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&s[0]))%Alignment == 0 //nolint:gosec // address inspection only
}
