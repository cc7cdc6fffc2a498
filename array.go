package bufarray

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/mmap"
	"github.com/hupe1980/bufarray/internal/resource"
	"github.com/hupe1980/bufarray/internal/segment"
)

// Array is a float64 array of a fixed shape, stored on the heap or in a
// memory-mapped file, in one or more segments.
//
// Array implements [dense.Dense] with flat, column-major indices. Like the
// segments behind it, an Array supports concurrent reads and disjoint
// concurrent writes; everything else must be synchronized by the caller.
type Array struct {
	dense.Dense

	storage  segment.Storage
	shape    Shape
	path     string
	segments int
	logger   *Logger
	metrics  MetricsCollector
	closed   atomic.Bool
}

var _ dense.Dense = (*Array)(nil)

// New creates a zero-filled in-memory array.
func New(shape Shape, optFns ...Option) (*Array, error) {
	return build(context.Background(), "", shape, optFns)
}

// New1D creates a zero-filled in-memory vector of n elements.
func New1D(n int64, optFns ...Option) (*Array, error) {
	return New(Shape{n}, optFns...)
}

// New2D creates a zero-filled in-memory rows x columns matrix.
func New2D(rows, columns int64, optFns ...Option) (*Array, error) {
	return New(Shape{rows, columns}, optFns...)
}

// Wrap returns an in-memory array that shares data, which is never copied.
// Writes through the array show up in data and the other way round. A nil
// shape means a vector of len(data); otherwise the shape's element count
// must equal len(data). Close detaches the array and leaves data untouched.
func Wrap(data []float64, shape Shape, optFns ...Option) (*Array, error) {
	o := applyOptions(optFns)
	if shape == nil {
		shape = Shape{int64(len(data))}
	}
	shape = shape.clone()
	count, err := shape.Count()
	if err != nil {
		return nil, err
	}
	if count != int64(len(data)) {
		return nil, &ShapeError{Shape: shape, Reason: fmt.Sprintf("holds %d elements, data has %d", count, len(data))}
	}

	s := segment.Wrap(data)
	return &Array{
		Dense:    s,
		storage:  s,
		shape:    shape,
		segments: 1,
		logger:   o.logger,
		metrics:  o.metricsCollector,
	}, nil
}

// Open creates an array backed by the file at path. The file is created if
// missing and grown to hold the array; existing contents are preserved, so
// reopening a file with the same shape yields the same values.
//
// The file holds count*8 bytes of native byte order float64 values in flat
// index order, without a header. The array owns the file until Close.
func Open(ctx context.Context, path string, shape Shape, optFns ...Option) (*Array, error) {
	return build(ctx, path, shape, optFns)
}

// Open1D opens a file-backed vector of n elements.
func Open1D(ctx context.Context, path string, n int64, optFns ...Option) (*Array, error) {
	return Open(ctx, path, Shape{n}, optFns...)
}

// Open2D opens a file-backed rows x columns matrix.
func Open2D(ctx context.Context, path string, rows, columns int64, optFns ...Option) (*Array, error) {
	return Open(ctx, path, Shape{rows, columns}, optFns...)
}

func build(ctx context.Context, path string, shape Shape, optFns []Option) (a *Array, err error) {
	o := applyOptions(optFns)
	shape = shape.clone()
	start := time.Now()

	var count int64
	defer func() {
		segments := 0
		if a != nil {
			segments = a.segments
		}
		o.metricsCollector.RecordOpen(segments, count*segment.ElementSize, time.Since(start), err)
		o.logger.LogOpen(ctx, path, shape, segments, err)
	}()

	count, err = shape.Count()
	if err != nil {
		return nil, err
	}

	cfg := segment.Config{
		Logger: o.logger.Logger,
		Controller: resource.NewController(resource.Config{
			MemoryLimitBytes:   o.memoryLimit,
			IOLimitBytesPerSec: o.ioLimit,
		}),
		Advice: mmap.AccessPattern(o.accessPattern),
		OnLeak: o.metricsCollector.RecordLeak,
	}

	var factory *segment.Factory
	if path == "" {
		factory = segment.NewMemoryFactory(cfg)
	} else {
		factory, err = segment.NewFileFactory(o.fileSystem, path, o.fileMode, cfg)
		if err != nil {
			return nil, translateError(err)
		}
	}

	storage, err := segment.Build(ctx, factory, count, o.segmentThreshold, o.segmentCapacity)
	if cerr := factory.Close(); err == nil && cerr != nil {
		_ = storage.Close()
		err = cerr
	}
	if err != nil {
		return nil, translateError(err)
	}

	segments := 1
	if s, ok := storage.(*segment.Segmented); ok {
		segments = len(s.Segments())
	}

	return &Array{
		Dense:    storage,
		storage:  storage,
		shape:    shape,
		path:     path,
		segments: segments,
		logger:   o.logger,
		metrics:  o.metricsCollector,
	}, nil
}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape { return a.shape.clone() }

// Path returns the backing file, or "" for in-memory arrays.
func (a *Array) Path() string { return a.path }

// Mapped reports whether the array is backed by a file.
func (a *Array) Mapped() bool { return a.path != "" }

// Segments returns the number of segments the array is stored in.
func (a *Array) Segments() int { return a.segments }

// At returns the element at a multi-dimensional index.
func (a *Array) At(idx ...int64) (float64, error) {
	i, err := a.shape.Index(idx...)
	if err != nil {
		return 0, err
	}
	return a.Get(i)
}

// SetAt sets the element at a multi-dimensional index.
func (a *Array) SetAt(v float64, idx ...int64) error {
	i, err := a.shape.Index(idx...)
	if err != nil {
		return err
	}
	return a.Set(i, v)
}

// Flush writes modified pages of a file-backed array to the file. It is a
// no-op for in-memory arrays.
func (a *Array) Flush() error {
	err := translateError(a.storage.Flush())
	if err != nil {
		a.logger.LogFlush(context.Background(), a.path, err)
	}
	return err
}

// Advise applies an access pattern hint to a file-backed array.
func (a *Array) Advise(p AccessPattern) error {
	return translateError(a.storage.Advise(mmap.AccessPattern(p)))
}
