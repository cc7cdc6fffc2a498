package segment

import (
	"errors"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/mmap"
	"github.com/hupe1980/bufarray/internal/resource"
)

// Segment is a contiguous run of float64 values.
//
// A Segment is not safe for concurrent mutation; concurrent reads are safe.
// Close must be called exactly once the segment is no longer needed. A
// segment that becomes unreachable while still open is reclaimed by the
// runtime and a warning is logged.
type Segment struct {
	data   []float64
	res    resources
	offset int64
	closed atomic.Bool

	cleanup runtime.Cleanup
	tracked bool
}

var _ dense.Dense = (*Segment)(nil)

// resources are the external resources a segment owns.
type resources struct {
	mapping *mmap.Mapping
	file    *backing
	ctrl    *resource.Controller
	heap    int64 // bytes reserved from ctrl
}

func (r resources) release() error {
	var errs []error
	if r.mapping != nil {
		if err := r.mapping.Close(); err != nil {
			errs = append(errs, &IOError{Op: "unmap", Path: r.file.path, Offset: r.mapping.Offset(), Length: int64(r.mapping.Len()), Err: err})
		}
	}
	if r.file != nil {
		if err := r.file.release(); err != nil {
			errs = append(errs, err)
		}
	}
	r.ctrl.ReleaseMemory(r.heap)
	return errors.Join(errs...)
}

// leak is the state handed to the runtime cleanup. It must not reference
// the Segment itself.
type leak struct {
	res    resources
	count  int
	logger *slog.Logger
	onLeak func()
}

func reclaim(l leak) {
	attrs := []any{slog.Int("count", l.count)}
	if l.res.mapping != nil {
		attrs = append(attrs, slog.String("path", l.res.file.path), slog.Int64("offset", l.res.mapping.Offset()))
	}
	l.logger.Warn("segment was not closed, releasing it during garbage collection", attrs...)
	if l.onLeak != nil {
		l.onLeak()
	}
	if err := l.res.release(); err != nil {
		l.logger.Error("failed to release leaked segment", slog.Any("error", err))
	}
}

func newSegment(data []float64, res resources, offset int64, logger *slog.Logger, onLeak func()) *Segment {
	s := &Segment{data: data, res: res, offset: offset}
	if res.mapping != nil || res.heap > 0 {
		if logger == nil {
			logger = slog.Default()
		}
		s.cleanup = runtime.AddCleanup(s, reclaim, leak{res: res, count: len(data), logger: logger, onLeak: onLeak})
		s.tracked = true
	}
	return s
}

// Wrap returns a heap segment that shares data. The segment owns no
// resources: it is not accounted against any Controller and Close only
// detaches it from data.
func Wrap(data []float64) *Segment {
	return newSegment(data, resources{}, 0, nil, nil)
}

// Count returns the number of elements.
func (s *Segment) Count() int64 { return int64(len(s.data)) }

// Len returns the number of elements as an int.
func (s *Segment) Len() int { return len(s.data) }

// Value returns the element at i without bounds or lifecycle checks.
func (s *Segment) Value(i int64) float64 { return s.data[i] }

// Mapped reports whether the segment is backed by a file mapping.
func (s *Segment) Mapped() bool { return s.res.mapping != nil }

// Offset returns the byte offset of the segment within its file, or 0 for
// heap segments.
func (s *Segment) Offset() int64 { return s.offset }

// Closed reports whether Close has been called.
func (s *Segment) Closed() bool { return s.closed.Load() }

// Get returns the element at i.
func (s *Segment) Get(i int64) (float64, error) {
	if s.closed.Load() {
		return 0, dense.ErrClosed
	}
	if err := dense.CheckIndex(i, s.Count()); err != nil {
		return 0, err
	}
	return s.data[i], nil
}

// Set stores v at i.
func (s *Segment) Set(i int64, v float64) error {
	if s.closed.Load() {
		return dense.ErrClosed
	}
	if err := dense.CheckIndex(i, s.Count()); err != nil {
		return err
	}
	s.data[i] = v
	return nil
}

func (s *Segment) checkRange(first, limit, step int64) error {
	if s.closed.Load() {
		return dense.ErrClosed
	}
	return dense.CheckRange(first, limit, step, s.Count())
}

// Fill writes value to every index of the progression.
func (s *Segment) Fill(first, limit, step int64, value float64) error {
	if err := s.checkRange(first, limit, step); err != nil {
		return err
	}
	s.fill(int(first), int(limit), int(step), value)
	return nil
}

// FillFunc writes supplier() to every index of the progression, in
// ascending order.
func (s *Segment) FillFunc(first, limit, step int64, supplier dense.Supplier) error {
	if err := s.checkRange(first, limit, step); err != nil {
		return err
	}
	s.fillFunc(int(first), int(limit), int(step), supplier)
	return nil
}

// Modify replaces every element x of the progression with fn(x).
func (s *Segment) Modify(first, limit, step int64, fn dense.Unary) error {
	if err := s.checkRange(first, limit, step); err != nil {
		return err
	}
	s.modify(int(first), int(limit), int(step), fn)
	return nil
}

// Transform writes fn(source[i]) for every index i of the progression.
// A closed source fails with dense.ErrClosed.
func (s *Segment) Transform(first, limit, step int64, source dense.Source, fn dense.Unary) error {
	if err := s.checkRange(first, limit, step); err != nil {
		return err
	}
	if err := dense.CheckOperand(source, limit); err != nil {
		return err
	}
	s.transform(0, int(first), int(limit), int(step), source, fn)
	return nil
}

// Apply writes fn(left[i], right[i]) for every index i of the progression.
func (s *Segment) Apply(first, limit, step int64, left dense.Source, fn dense.Binary, right dense.Source) error {
	if err := s.checkRange(first, limit, step); err != nil {
		return err
	}
	if err := dense.CheckOperand(left, limit); err != nil {
		return err
	}
	if err := dense.CheckOperand(right, limit); err != nil {
		return err
	}
	s.apply(0, int(first), int(limit), int(step), left, fn, right)
	return nil
}

// Visit feeds every element of the progression to visitor.
func (s *Segment) Visit(first, limit, step int64, visitor dense.Visitor) error {
	if err := s.checkRange(first, limit, step); err != nil {
		return err
	}
	s.visit(int(first), int(limit), int(step), visitor)
	return nil
}

// Exchange swaps the runs starting at firstA and firstB element by element.
func (s *Segment) Exchange(firstA, firstB, step, count int64) error {
	if s.closed.Load() {
		return dense.ErrClosed
	}
	if err := dense.CheckRun(firstA, step, count, s.Count()); err != nil {
		return err
	}
	if err := dense.CheckRun(firstB, step, count, s.Count()); err != nil {
		return err
	}
	d := s.data
	for k := int64(0); k < count; k++ {
		a, b := firstA+k*step, firstB+k*step
		d[a], d[b] = d[b], d[a]
	}
	return nil
}

// SearchAscending binary searches the segment, which must be sorted
// ascending, and returns the insertion index of value and whether it is
// present there. A closed segment returns (-1, false).
func (s *Segment) SearchAscending(value float64) (int64, bool) {
	if s.closed.Load() {
		return -1, false
	}
	i, found := slices.BinarySearch(s.data, value)
	return int64(i), found
}

// SortAscending sorts all elements in place. NaNs sort first.
func (s *Segment) SortAscending() error {
	if s.closed.Load() {
		return dense.ErrClosed
	}
	slices.Sort(s.data)
	return nil
}

// IndexOfLargest returns the earliest index of the largest absolute value in
// the progression, or -1 when it is empty.
func (s *Segment) IndexOfLargest(first, limit, step int64) (int64, error) {
	if err := s.checkRange(first, limit, step); err != nil {
		return -1, err
	}
	i, _ := s.largest(int(first), int(limit), int(step))
	return int64(i), nil
}

// Flush writes dirty pages of a mapped segment back to its file.
func (s *Segment) Flush() error {
	if s.closed.Load() {
		return dense.ErrClosed
	}
	if s.res.mapping == nil {
		return nil
	}
	if err := s.res.mapping.Flush(); err != nil {
		return &IOError{Op: "flush", Path: s.res.file.path, Offset: s.offset, Length: int64(s.res.mapping.Len()), Err: err}
	}
	return nil
}

// Advise passes an access pattern hint for a mapped segment to the kernel.
func (s *Segment) Advise(pattern mmap.AccessPattern) error {
	if s.closed.Load() {
		return dense.ErrClosed
	}
	if s.res.mapping == nil {
		return nil
	}
	return s.res.mapping.Advise(pattern)
}

// Close releases the segment's memory or mapping. It is idempotent.
func (s *Segment) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.tracked {
		s.cleanup.Stop()
	}
	s.data = nil
	return s.res.release()
}

// The loops below assume validated bounds and iterate by count, so a step
// larger than the remaining range cannot overflow the index. base is the
// global index of element 0 and is used only to read Sources.

func steps(lo, hi, step int) int {
	return int(dense.Steps(int64(lo), int64(hi), int64(step)))
}

func (s *Segment) fill(lo, hi, step int, v float64) {
	d := s.data
	if step == 1 {
		for i := range d[lo:hi] {
			d[lo+i] = v
		}
		return
	}
	for k, n := 0, steps(lo, hi, step); k < n; k++ {
		d[lo+k*step] = v
	}
}

func (s *Segment) fillFunc(lo, hi, step int, sup dense.Supplier) {
	d := s.data
	for k, n := 0, steps(lo, hi, step); k < n; k++ {
		d[lo+k*step] = sup()
	}
}

func (s *Segment) modify(lo, hi, step int, fn dense.Unary) {
	d := s.data
	for k, n := 0, steps(lo, hi, step); k < n; k++ {
		i := lo + k*step
		d[i] = fn(d[i])
	}
}

func (s *Segment) transform(base int64, lo, hi, step int, src dense.Source, fn dense.Unary) {
	d := s.data
	for k, n := 0, steps(lo, hi, step); k < n; k++ {
		i := lo + k*step
		d[i] = fn(src.Value(base + int64(i)))
	}
}

func (s *Segment) apply(base int64, lo, hi, step int, left dense.Source, fn dense.Binary, right dense.Source) {
	d := s.data
	for k, n := 0, steps(lo, hi, step); k < n; k++ {
		i := lo + k*step
		g := base + int64(i)
		d[i] = fn(left.Value(g), right.Value(g))
	}
}

func (s *Segment) visit(lo, hi, step int, v dense.Visitor) {
	d := s.data
	for k, n := 0, steps(lo, hi, step); k < n; k++ {
		v.Invoke(d[lo+k*step])
	}
}

// largest returns the earliest index of the largest absolute value and that
// value, or -1 for an empty progression. NaNs never win unless every
// visited element is NaN.
func (s *Segment) largest(lo, hi, step int) (int, float64) {
	if lo >= hi {
		return -1, math.Inf(-1)
	}
	d := s.data
	best, bestAbs := -1, math.Inf(-1)
	for k, n := 0, steps(lo, hi, step); k < n; k++ {
		i := lo + k*step
		if a := math.Abs(d[i]); a > bestAbs {
			best, bestAbs = i, a
		}
	}
	if best < 0 {
		return lo, math.NaN()
	}
	return best, bestAbs
}
