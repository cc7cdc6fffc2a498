package archive

import (
	"github.com/hupe1980/bufarray"
)

type options struct {
	compression   Compression
	blockElements int
	shape         bufarray.Shape
	logger        *bufarray.Logger
	ioLimit       int64
}

// Option configures Export and Save.
type Option func(*options)

// WithCompression selects the block codec. Default: CompressionLZ4.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithBlockElements sets the number of elements per block. Values outside
// [1, MaxBlockElements] are ignored.
func WithBlockElements(n int) Option {
	return func(o *options) {
		if n > 0 && n <= MaxBlockElements {
			o.blockElements = n
		}
	}
}

// WithShape records shape in the header instead of the source's own shape.
// Its element count must match the source.
func WithShape(shape bufarray.Shape) Option {
	return func(o *options) { o.shape = append(bufarray.Shape(nil), shape...) }
}

// WithLogger sets the logger for Save, Load and Restore.
// A nil logger disables logging.
func WithLogger(l *bufarray.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = bufarray.NoopLogger()
		}
		o.logger = l
	}
}

// WithIOLimit caps Save, Load and Restore at bytesPerSec bytes of archive
// data per second. Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) { o.ioLimit = max(bytesPerSec, 0) }
}

func applyOptions(optFns []Option) options {
	o := options{
		compression:   CompressionLZ4,
		blockElements: DefaultBlockElements,
		logger:        bufarray.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
