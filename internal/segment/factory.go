package segment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/fs"
	"github.com/hupe1980/bufarray/internal/mem"
	"github.com/hupe1980/bufarray/internal/mmap"
	"github.com/hupe1980/bufarray/internal/resource"
)

// ElementSize is the size in bytes of one stored element.
const ElementSize = 8

// Config configures a Factory.
type Config struct {
	// Logger receives leak warnings. Defaults to slog.Default().
	Logger *slog.Logger
	// Controller accounts heap memory and throttles file growth. Optional.
	Controller *resource.Controller
	// Advice is applied to every new file mapping.
	Advice mmap.AccessPattern
	// OnLeak is called when an unclosed segment is reclaimed.
	OnLeak func()
}

// Factory creates segments. A file factory maps consecutive byte ranges of
// one file; the next range starts where the previous successful one ended.
// Factories are safe for concurrent use.
type Factory struct {
	cfg  Config
	file *backing // nil for heap segments

	mu     sync.Mutex
	offset int64
	closed bool
}

// NewMemoryFactory returns a factory that creates heap segments.
func NewMemoryFactory(cfg Config) *Factory {
	return &Factory{cfg: cfg}
}

// NewFileFactory opens (creating if needed) the file at path and returns a
// factory that maps ranges of it starting at offset 0. The factory holds a
// reference to the file until Close.
func NewFileFactory(fsys fs.FileSystem, path string, perm os.FileMode, cfg Config) (*Factory, error) {
	b, err := openBacking(fsys, path, perm)
	if err != nil {
		return nil, err
	}
	return &Factory{cfg: cfg, file: b}, nil
}

// ElementSize returns the size in bytes of one element.
func (f *Factory) ElementSize() int64 { return ElementSize }

// Mapped reports whether the factory creates file-backed segments.
func (f *Factory) Mapped() bool { return f.file != nil }

// Offset returns the byte offset at which the next segment will be mapped.
func (f *Factory) Offset() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset
}

// Next creates a segment of capacity elements.
func (f *Factory) Next(ctx context.Context, capacity int64) (*Segment, error) {
	if capacity < 0 || capacity > math.MaxInt/ElementSize {
		return nil, fmt.Errorf("segment: invalid capacity %d", capacity)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.isClosed() {
		return nil, dense.ErrClosed
	}
	if f.file == nil {
		return f.nextHeap(int(capacity))
	}
	return f.nextMapped(ctx, capacity)
}

func (f *Factory) nextHeap(capacity int) (*Segment, error) {
	bytes := int64(capacity) * ElementSize
	if err := f.cfg.Controller.AcquireMemory(bytes); err != nil {
		return nil, fmt.Errorf("segment: reserve %d bytes: %w", bytes, err)
	}
	var heap int64
	if f.cfg.Controller != nil {
		heap = bytes
	}
	data := mem.AllocAlignedFloat64(capacity)
	return newSegment(data, resources{ctrl: f.cfg.Controller, heap: heap}, 0, f.cfg.Logger, f.cfg.OnLeak), nil
}

func (f *Factory) nextMapped(ctx context.Context, capacity int64) (*Segment, error) {
	bytes := capacity * ElementSize
	if err := f.cfg.Controller.AcquireIO(ctx, bytes); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, dense.ErrClosed
	}

	offset := f.offset
	if bytes > math.MaxInt64-offset {
		return nil, &IOError{Op: "map", Path: f.file.path, Offset: offset, Length: bytes, Err: mmap.ErrInvalidSize}
	}
	if err := f.file.ensure(offset + bytes); err != nil {
		return nil, err
	}
	m, err := mmap.Map(f.file.file, offset, int(bytes), true)
	if err != nil {
		return nil, &IOError{Op: "map", Path: f.file.path, Offset: offset, Length: bytes, Err: err}
	}
	data, err := m.Float64s()
	if err != nil {
		_ = m.Close()
		return nil, &IOError{Op: "map", Path: f.file.path, Offset: offset, Length: bytes, Err: err}
	}
	if f.cfg.Advice != mmap.AccessDefault {
		_ = m.Advise(f.cfg.Advice)
	}

	f.file.retain()
	f.offset = offset + bytes
	return newSegment(data, resources{mapping: m, file: f.file}, offset, f.cfg.Logger, f.cfg.OnLeak), nil
}

// Close drops the factory's reference to its file. Segments already created
// stay valid. It is idempotent.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	if f.file == nil {
		return nil
	}
	return f.file.release()
}

func (f *Factory) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
