// Package mmap maps byte ranges of open files into memory.
//
// # Overview
//
// A [Mapping] covers an arbitrary byte range of a file. The operating system
// requires page-aligned offsets, so the mapping itself starts at the aligned
// offset at or below the requested one and [Mapping.Bytes] exposes only the
// requested range. Consecutive ranges of the same file may therefore share a
// page without overlapping in their views.
//
// # Usage
//
//	m, err := mmap.Map(f, offset, length, true)
//	if err != nil { ... }
//	defer m.Close()
//
//	values := m.Float64s()        // native byte order view
//	_ = m.Advise(mmap.AccessSequential)
//	_ = m.Flush()                 // write dirty pages back
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2), msync(2), madvise(2)
//   - Windows: CreateFileMapping/MapViewOfFile, FlushViewOfFile (advice is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure no
// goroutine touches the view after Close returns.
package mmap
