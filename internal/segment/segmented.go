package segment

import (
	"cmp"
	"errors"
	"math"
	"sort"
	"sync/atomic"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/mmap"
)

// Segmented is a logical array split over equally sized segments. Only the
// last segment may be shorter. Element i lives in segment i/capacity at
// local index i%capacity.
type Segmented struct {
	segments []*Segment
	capacity int64
	count    int64
	closed   atomic.Bool
}

var _ dense.Dense = (*Segmented)(nil)

// NewSegmented takes ownership of segs. Every segment but the last must
// hold exactly capacity elements.
func NewSegmented(segs []*Segment, capacity int64) *Segmented {
	var n int64
	for _, s := range segs {
		n += s.Count()
	}
	return &Segmented{segments: segs, capacity: capacity, count: n}
}

// Count returns the total number of elements.
func (a *Segmented) Count() int64 { return a.count }

// SegmentCapacity returns the number of elements per full segment.
func (a *Segmented) SegmentCapacity() int64 { return a.capacity }

// Segments returns the underlying segments in order.
func (a *Segmented) Segments() []*Segment { return a.segments }

// Locate returns the segment number and local index of element i.
func (a *Segmented) Locate(i int64) (int, int) {
	return int(i / a.capacity), int(i % a.capacity)
}

// Value returns the element at i without bounds or lifecycle checks.
func (a *Segmented) Value(i int64) float64 {
	return a.segments[i/a.capacity].data[i%a.capacity]
}

// Closed reports whether Close has been called.
func (a *Segmented) Closed() bool { return a.closed.Load() }

// Get returns the element at global index i.
func (a *Segmented) Get(i int64) (float64, error) {
	if a.closed.Load() {
		return 0, dense.ErrClosed
	}
	if err := dense.CheckIndex(i, a.count); err != nil {
		return 0, err
	}
	return a.Value(i), nil
}

// Set stores v at global index i.
func (a *Segmented) Set(i int64, v float64) error {
	if a.closed.Load() {
		return dense.ErrClosed
	}
	if err := dense.CheckIndex(i, a.count); err != nil {
		return err
	}
	a.segments[i/a.capacity].data[i%a.capacity] = v
	return nil
}

func (a *Segmented) checkRange(first, limit, step int64) error {
	if a.closed.Load() {
		return dense.ErrClosed
	}
	return dense.CheckRange(first, limit, step, a.count)
}

// each calls fn, in ascending order, for every segment that holds at least
// one index of the progression, with the local bounds of that part.
func (a *Segmented) each(first, limit, step int64, fn func(s *Segment, base int64, lo, hi, step int)) {
	if first >= limit {
		return
	}
	for n := first / a.capacity; n < int64(len(a.segments)); n++ {
		base := n * a.capacity
		if base >= limit {
			return
		}
		s := a.segments[n]
		start := dense.FirstAtOrAfter(first, step, base)
		end := min(limit, base+s.Count())
		if start >= end {
			continue
		}
		fn(s, base, int(start-base), int(end-base), int(step))
	}
}

// Fill writes value to every index of the progression, segment by segment.
func (a *Segmented) Fill(first, limit, step int64, value float64) error {
	if err := a.checkRange(first, limit, step); err != nil {
		return err
	}
	a.each(first, limit, step, func(s *Segment, _ int64, lo, hi, st int) {
		s.fill(lo, hi, st, value)
	})
	return nil
}

// FillFunc writes supplier() to every index of the progression, in
// ascending order.
func (a *Segmented) FillFunc(first, limit, step int64, supplier dense.Supplier) error {
	if err := a.checkRange(first, limit, step); err != nil {
		return err
	}
	a.each(first, limit, step, func(s *Segment, _ int64, lo, hi, st int) {
		s.fillFunc(lo, hi, st, supplier)
	})
	return nil
}

// Modify replaces every element x of the progression with fn(x).
func (a *Segmented) Modify(first, limit, step int64, fn dense.Unary) error {
	if err := a.checkRange(first, limit, step); err != nil {
		return err
	}
	a.each(first, limit, step, func(s *Segment, _ int64, lo, hi, st int) {
		s.modify(lo, hi, st, fn)
	})
	return nil
}

// Transform reads source with global indices. A closed source fails
// with dense.ErrClosed.
func (a *Segmented) Transform(first, limit, step int64, source dense.Source, fn dense.Unary) error {
	if err := a.checkRange(first, limit, step); err != nil {
		return err
	}
	if err := dense.CheckOperand(source, limit); err != nil {
		return err
	}
	a.each(first, limit, step, func(s *Segment, base int64, lo, hi, st int) {
		s.transform(base, lo, hi, st, source, fn)
	})
	return nil
}

// Apply writes fn(left[i], right[i]) for every index i of the progression.
func (a *Segmented) Apply(first, limit, step int64, left dense.Source, fn dense.Binary, right dense.Source) error {
	if err := a.checkRange(first, limit, step); err != nil {
		return err
	}
	if err := dense.CheckOperand(left, limit); err != nil {
		return err
	}
	if err := dense.CheckOperand(right, limit); err != nil {
		return err
	}
	a.each(first, limit, step, func(s *Segment, base int64, lo, hi, st int) {
		s.apply(base, lo, hi, st, left, fn, right)
	})
	return nil
}

// Visit feeds every element of the progression to visitor.
func (a *Segmented) Visit(first, limit, step int64, visitor dense.Visitor) error {
	if err := a.checkRange(first, limit, step); err != nil {
		return err
	}
	a.each(first, limit, step, func(s *Segment, _ int64, lo, hi, st int) {
		s.visit(lo, hi, st, visitor)
	})
	return nil
}

// Exchange swaps two runs, which may lie in different segments.
func (a *Segmented) Exchange(firstA, firstB, step, count int64) error {
	if a.closed.Load() {
		return dense.ErrClosed
	}
	if err := dense.CheckRun(firstA, step, count, a.count); err != nil {
		return err
	}
	if err := dense.CheckRun(firstB, step, count, a.count); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		si, li := a.Locate(firstA + k*step)
		sj, lj := a.Locate(firstB + k*step)
		di, dj := a.segments[si].data, a.segments[sj].data
		di[li], dj[lj] = dj[lj], di[li]
	}
	return nil
}

// SearchAscending binary searches the whole array, which must be sorted
// ascending, and returns the insertion index of value and whether it is
// present there. A closed array returns (-1, false).
func (a *Segmented) SearchAscending(value float64) (int64, bool) {
	if a.closed.Load() {
		return -1, false
	}
	i := int64(sort.Search(int(a.count), func(k int) bool {
		return cmp.Compare(a.Value(int64(k)), value) >= 0
	}))
	return i, i < a.count && cmp.Compare(a.Value(i), value) == 0
}

// SortAscending sorts all elements across segments in place. NaNs sort
// first.
func (a *Segmented) SortAscending() error {
	if a.closed.Load() {
		return dense.ErrClosed
	}
	v := sortView{a}
	if !sort.IsSorted(v) {
		sort.Sort(v)
	}
	return nil
}

type sortView struct{ a *Segmented }

func (v sortView) Len() int { return int(v.a.count) }

func (v sortView) Less(i, j int) bool {
	return cmp.Less(v.a.Value(int64(i)), v.a.Value(int64(j)))
}

func (v sortView) Swap(i, j int) {
	si, li := v.a.Locate(int64(i))
	sj, lj := v.a.Locate(int64(j))
	di, dj := v.a.segments[si].data, v.a.segments[sj].data
	di[li], dj[lj] = dj[lj], di[li]
}

// IndexOfLargest merges the per-segment results; the earliest index wins
// ties across segments too.
func (a *Segmented) IndexOfLargest(first, limit, step int64) (int64, error) {
	if err := a.checkRange(first, limit, step); err != nil {
		return -1, err
	}
	best, bestAbs, fallback := int64(-1), math.Inf(-1), int64(-1)
	a.each(first, limit, step, func(s *Segment, base int64, lo, hi, st int) {
		i, v := s.largest(lo, hi, st)
		switch {
		case math.IsNaN(v):
			if fallback < 0 {
				fallback = base + int64(i)
			}
		case v > bestAbs:
			best, bestAbs = base+int64(i), v
		}
	})
	if best < 0 {
		return fallback, nil
	}
	return best, nil
}

// Flush writes dirty pages of every mapped segment back to the file.
func (a *Segmented) Flush() error {
	if a.closed.Load() {
		return dense.ErrClosed
	}
	var errs []error
	for _, s := range a.segments {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Advise applies an access pattern hint to every mapped segment.
func (a *Segmented) Advise(pattern mmap.AccessPattern) error {
	if a.closed.Load() {
		return dense.ErrClosed
	}
	var errs []error
	for _, s := range a.segments {
		if err := s.Advise(pattern); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every segment. All segments are closed even if some fail.
// It is idempotent.
func (a *Segmented) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	return closeAll(a.segments)
}

func closeAll(segs []*Segment) error {
	var errs []error
	for _, s := range segs {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
