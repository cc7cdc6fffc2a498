// Package dense defines the capability set shared by every float64 storage
// variant in bufarray.
//
// # Ranges
//
// Ranged operations take a start index, an exclusive limit and a stride:
//
//	a.Fill(2, 10, 3, 9.0) // writes indices 2, 5, 8
//
// Every progression is executed in ascending index order. Suppliers and
// visitors are called exactly once per index, so stateful callbacks observe
// the same sequence regardless of how the storage is split internally.
//
// # Operands
//
// Binary operations take two [Source] operands. A Source may be a plain
// slice ([Float64s]), a constant ([Scalar]) or the array itself, which covers
// every array/scalar combination with a single method:
//
//	a.Apply(0, n, 1, a, dense.Add, dense.Scalar(1))      // a[i] += 1
//	a.Apply(0, n, 1, dense.Scalar(2), dense.Multiply, b) // a[i] = 2*b[i]
//
// Sources are always indexed with the destination's index, so operands must
// be at least as long as the range limit.
package dense
