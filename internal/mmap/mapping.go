package mmap

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Mapping represents a memory-mapped byte range of a file.
// It owns the underlying mapped region and is responsible for unmapping it.
type Mapping struct {
	data     []byte // whole mapped region, starting at an aligned offset
	view     []byte // requested range within data
	offset   int64
	writable bool
	closed   atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// Map maps length bytes of f starting at offset. The file must already be at
// least offset+length bytes long. Writable mappings are shared, so stores
// reach the file.
func Map(f Fder, offset int64, length int, writable bool) (*Mapping, error) {
	if offset < 0 {
		return nil, ErrInvalidOffset
	}
	if length < 0 {
		return nil, ErrInvalidSize
	}
	if length == 0 {
		return &Mapping{offset: offset, writable: writable}, nil
	}

	align := alignment()
	base := offset &^ (align - 1)
	delta := int(offset - base)
	if length > math.MaxInt-delta {
		return nil, ErrInvalidSize
	}

	// Platform-specific mapping
	data, unmapFunc, err := osMap(f.Fd(), base, delta+length, writable)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:     data,
		view:     data[delta : delta+length : delta+length],
		offset:   offset,
		writable: writable,
		unmap:    unmapFunc,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	data := m.data
	m.data, m.view = nil, nil
	if m.unmap != nil && data != nil {
		return m.unmap(data)
	}
	return nil
}

// Closed reports whether Close has been called.
func (m *Mapping) Closed() bool {
	return m.closed.Load()
}

// Bytes returns the requested byte range.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.view
}

// Float64s returns the requested range as native-byte-order float64 values.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Float64s() ([]float64, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if len(m.view)%8 != 0 {
		return nil, ErrMisaligned
	}
	if len(m.view) == 0 {
		return nil, nil
	}
	if uintptr(unsafe.Pointer(&m.view[0]))%8 != 0 { //nolint:gosec // alignment check
		return nil, ErrMisaligned
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&m.view[0])), len(m.view)/8), nil //nolint:gosec // reinterpret mapped bytes
}

// Len returns the length of the requested range in bytes.
func (m *Mapping) Len() int {
	return len(m.view)
}

// Offset returns the file offset of the requested range.
func (m *Mapping) Offset() int64 {
	return m.offset
}

// Writable reports whether the mapping was created read-write.
func (m *Mapping) Writable() bool {
	return m.writable
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// Flush synchronously writes dirty pages back to the file.
func (m *Mapping) Flush() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil || !m.writable {
		return nil
	}
	return osFlush(m.data)
}
