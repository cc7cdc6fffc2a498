package archive

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/bufarray"
	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/hash"
)

// Stats summarizes an export.
type Stats struct {
	Elements    int64
	Blocks      int64
	RawBytes    int64
	StoredBytes int64
}

type shaped interface {
	Shape() bufarray.Shape
}

type closer interface {
	Closed() bool
}

// Export writes src to w. The recorded shape is taken from WithShape, then
// from src if it has a Shape method, and otherwise is one-dimensional.
// ctx is checked between blocks.
func Export(ctx context.Context, w io.Writer, src dense.Source, optFns ...Option) (Stats, error) {
	o := applyOptions(optFns)
	if !o.compression.valid() {
		return Stats{}, fmt.Errorf("%w: %s", ErrUnsupported, o.compression)
	}
	if src == nil {
		return Stats{}, dense.ErrOperandMismatch
	}
	if c, ok := src.(closer); ok && c.Closed() {
		return Stats{}, dense.ErrClosed
	}

	count := src.Count()
	shape := o.shape
	if shape == nil {
		if s, ok := src.(shaped); ok {
			shape = s.Shape()
		} else {
			shape = bufarray.Shape{count}
		}
	}
	n, err := shape.Count()
	if err != nil {
		return Stats{}, err
	}
	if n != count {
		return Stats{}, &bufarray.ShapeError{Shape: shape, Reason: fmt.Sprintf("holds %d elements, source has %d", n, count)}
	}

	h := Header{
		Version:       Version,
		Compression:   o.compression,
		BlockElements: uint32(o.blockElements),
		Count:         count,
		Shape:         shape,
	}
	head := h.encode()
	if _, err := w.Write(head); err != nil {
		return Stats{}, err
	}
	stats := Stats{StoredBytes: int64(len(head))}

	values := make([]float64, o.blockElements)
	raw := make([]byte, o.blockElements*elementSize)
	var scratch []byte
	frame := make([]byte, blockHeaderSize)

	for first := int64(0); first < count; first += int64(o.blockElements) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		m := int(min(int64(o.blockElements), count-first))
		if err := gather(src, first, values[:m]); err != nil {
			return stats, err
		}
		block := raw[:m*elementSize]
		putFloats(block, values[:m])

		stored, err := compress(o.compression, block, scratch)
		if err != nil {
			return stats, err
		}
		payload := block
		if stored != nil {
			payload = stored
			scratch = stored
		}

		binary.LittleEndian.PutUint32(frame[0:], uint32(len(block)))
		binary.LittleEndian.PutUint32(frame[4:], uint32(len(stored)))
		binary.LittleEndian.PutUint32(frame[8:], hash.CRC32C(block))
		if _, err := w.Write(frame); err != nil {
			return stats, err
		}
		if _, err := w.Write(payload); err != nil {
			return stats, err
		}

		stats.Elements += int64(m)
		stats.Blocks++
		stats.RawBytes += int64(len(block))
		stats.StoredBytes += int64(blockHeaderSize + len(payload))
	}
	return stats, nil
}

// gather copies src[first:first+len(dst)] into dst. Dense sources are read
// through Visit so a closed array reports ErrClosed.
func gather(src dense.Source, first int64, dst []float64) error {
	d, ok := src.(dense.Dense)
	if !ok {
		for i := range dst {
			dst[i] = src.Value(first + int64(i))
		}
		return nil
	}
	k := 0
	return d.Visit(first, first+int64(len(dst)), 1, dense.VisitorFunc(func(v float64) {
		dst[k] = v
		k++
	}))
}

// Reader decodes an archive stream.
type Reader struct {
	r      io.Reader
	header Header
}

// NewReader reads the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, header: h}, nil
}

// Header returns the archive header.
func (r *Reader) Header() Header { return r.header }

// ReadInto decodes every block into dst, which must hold exactly
// Header().Count elements. ctx is checked between blocks.
func (r *Reader) ReadInto(ctx context.Context, dst dense.Dense) error {
	h := r.header
	if c, ok := dst.(closer); ok && c.Closed() {
		return dense.ErrClosed
	}
	if dst == nil || dst.Count() != h.Count {
		return fmt.Errorf("%w: archive holds %d elements", dense.ErrOperandMismatch, h.Count)
	}

	maxRaw := int(h.BlockElements) * elementSize
	frame := make([]byte, blockHeaderSize)
	raw := make([]byte, maxRaw)
	values := make([]float64, h.BlockElements)
	var stored []byte

	for first := int64(0); first < h.Count; first += int64(h.BlockElements) {
		if err := ctx.Err(); err != nil {
			return err
		}

		m := int(min(int64(h.BlockElements), h.Count-first))
		if _, err := io.ReadFull(r.r, frame); err != nil {
			return truncated(err)
		}
		rawLen := int(binary.LittleEndian.Uint32(frame[0:]))
		storedLen := int(binary.LittleEndian.Uint32(frame[4:]))
		sum := binary.LittleEndian.Uint32(frame[8:])
		if rawLen != m*elementSize {
			return fmt.Errorf("%w: block at %d has %d bytes, want %d", ErrCorrupt, first, rawLen, m*elementSize)
		}
		if storedLen > maxRaw {
			return fmt.Errorf("%w: block at %d stores %d bytes", ErrCorrupt, first, storedLen)
		}

		block := raw[:rawLen]
		if storedLen == 0 {
			if _, err := io.ReadFull(r.r, block); err != nil {
				return truncated(err)
			}
		} else {
			if cap(stored) < storedLen {
				stored = make([]byte, storedLen)
			}
			stored = stored[:storedLen]
			if _, err := io.ReadFull(r.r, stored); err != nil {
				return truncated(err)
			}
			if err := decompress(h.Compression, stored, block); err != nil {
				return err
			}
		}
		if got := hash.CRC32C(block); got != sum {
			return fmt.Errorf("%w: block at %d checksum %08x, want %08x", ErrCorrupt, first, got, sum)
		}

		getFloats(values[:m], block)
		k := 0
		if err := dst.FillFunc(first, first+int64(m), 1, func() float64 {
			v := values[k]
			k++
			return v
		}); err != nil {
			return err
		}
	}
	return nil
}

// Import reads an archive from r into dst and returns its header.
func Import(ctx context.Context, r io.Reader, dst dense.Dense) (Header, error) {
	ar, err := NewReader(r)
	if err != nil {
		return Header{}, err
	}
	return ar.header, ar.ReadInto(ctx, dst)
}
