package bufarray

import (
	"log/slog"
	"os"

	"github.com/hupe1980/bufarray/internal/fs"
)

const (
	// DefaultSegmentThreshold is the largest element count stored in a
	// single segment. Larger arrays are split into segments.
	DefaultSegmentThreshold int64 = 1 << 8

	// DefaultSegmentCapacity is the number of elements per segment of a
	// segmented array (128 MiB of float64 values).
	DefaultSegmentCapacity int64 = 1 << 24

	// DefaultFileMode is the permission used when a backing file is created.
	DefaultFileMode os.FileMode = 0o644
)

// AccessPattern is a hint about how a file-backed array will be read.
type AccessPattern int

const (
	// AccessDefault gives no advice.
	AccessDefault AccessPattern = iota
	// AccessSequential expects ascending scans.
	AccessSequential
	// AccessRandom expects scattered access.
	AccessRandom
	// AccessWillNeed asks the kernel to read ahead.
	AccessWillNeed
	// AccessDontNeed allows the kernel to drop cached pages.
	AccessDontNeed
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	segmentThreshold int64
	segmentCapacity  int64
	memoryLimit      int64
	ioLimit          int64
	accessPattern    AccessPattern
	fileMode         os.FileMode
	fileSystem       fs.FileSystem
}

// Option configures array construction.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := bufarray.NewJSONLogger(slog.LevelInfo)
//	a, _ := bufarray.New(bufarray.Shape{1000}, bufarray.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &bufarray.BasicMetricsCollector{}
//	a, _ := bufarray.Open(ctx, "data.bin", bufarray.Shape{1 << 30}, bufarray.WithMetricsCollector(metrics))
//	// ... use a ...
//	stats := metrics.GetStats()
//	fmt.Printf("Segments: %d, Leaks: %d\n", stats.SegmentCount, stats.LeakCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithSegmentThreshold sets the largest element count that is stored in a
// single segment. A negative threshold always segments.
func WithSegmentThreshold(n int64) Option {
	return func(o *options) {
		o.segmentThreshold = n
	}
}

// WithSegmentCapacity sets the number of elements per segment. Values below
// 1 are ignored.
func WithSegmentCapacity(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.segmentCapacity = n
		}
	}
}

// WithMemoryLimit caps the heap memory used by in-memory arrays. Zero means
// unlimited. File-backed arrays are not counted.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIOLimit caps how many bytes per second of file-backed storage are
// mapped during construction. Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithAccessPattern applies an access pattern hint to every mapped segment.
func WithAccessPattern(p AccessPattern) Option {
	return func(o *options) {
		o.accessPattern = p
	}
}

// WithFileMode sets the permission used when the backing file is created.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// withFileSystem replaces the file system used to open backing files.
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fileSystem = fsys
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           &Logger{Logger: slog.Default()},
		metricsCollector: NoopMetricsCollector{},
		segmentThreshold: DefaultSegmentThreshold,
		segmentCapacity:  DefaultSegmentCapacity,
		fileMode:         DefaultFileMode,
		fileSystem:       fs.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
