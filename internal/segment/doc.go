// Package segment implements the storage layer behind bufarray.
//
// A [Segment] is one contiguous run of float64 values, backed either by
// 64-byte aligned heap memory or by a shared read-write mapping of a byte
// range of a file. A [Factory] creates segments; file factories hand out
// consecutive, non-overlapping byte ranges of a single file. [Segmented]
// stitches equally sized segments into one logical array and [Build] picks
// between a single segment and a segmented array based on the element count.
//
// All segments implement [dense.Dense]. Operations that take a
// [dense.Source] read it with global indices, so a Segment that is part of a
// Segmented array receives its base offset from the dispatcher.
package segment
