// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Heap-backed segments are allocated 64-byte aligned so that in-memory and
// memory-mapped storage present the same alignment to numeric kernels.
package mem
