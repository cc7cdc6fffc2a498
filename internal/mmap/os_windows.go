//go:build windows

package mmap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Views must start on the system allocation granularity, not the page size.
const allocationGranularity = 64 * 1024

func alignment() int64 {
	return allocationGranularity
}

func osMap(fd uintptr, offset int64, size int, writable bool) ([]byte, func([]byte) error, error) {
	if size == 0 {
		return nil, nil, nil
	}

	prot := uint32(windows.PAGE_READONLY)
	access := uint32(windows.FILE_MAP_READ)
	if writable {
		prot = windows.PAGE_READWRITE
		access = windows.FILE_MAP_WRITE
	}

	// A zero maximum size maps the file at its current length, which the
	// caller has already grown to cover the range.
	h, err := windows.CreateFileMapping(windows.Handle(fd), nil, prot, 0, 0, nil)
	if err != nil {
		return nil, nil, err
	}
	// The view holds its own reference to the mapping object.
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, access, uint32(offset>>32), uint32(offset), uintptr(size))
	if err != nil {
		return nil, nil, err
	}

	unmap := func([]byte) error { return windows.UnmapViewOfFile(addr) }
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), unmap, nil
}

func osFlush(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return windows.FlushViewOfFile(uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)))
}

// Windows has no madvise. Hints are validated and otherwise ignored.
func osAdvise(_ []byte, pattern AccessPattern) error {
	if pattern.String() == "unknown" {
		return fmt.Errorf("mmap: unknown access pattern %d", int(pattern))
	}
	return nil
}
