package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/bufarray"
	"github.com/hupe1980/bufarray/internal/hash"
)

var (
	// ErrCorrupt is returned when an archive fails validation.
	ErrCorrupt = errors.New("archive: corrupt data")

	// ErrUnsupported is returned for an unknown version or codec.
	ErrUnsupported = errors.New("archive: unsupported format")
)

const (
	// Version is the format version written by Export.
	Version uint8 = 1

	// DefaultBlockElements is the number of elements per block.
	DefaultBlockElements = 1 << 15

	// MaxBlockElements bounds the block size accepted on read.
	MaxBlockElements = 1 << 24

	// MaxRank bounds the number of dimensions.
	MaxRank = 1 << 8

	elementSize     = 8
	fixedHeaderSize = 4 + 1 + 1 + 2 + 4 + 8
	blockHeaderSize = 12
)

var magic = [4]byte{'B', 'U', 'F', 'A'}

// Header describes an archive.
type Header struct {
	Version       uint8
	Compression   Compression
	BlockElements uint32
	Count         int64
	Shape         bufarray.Shape
}

// Blocks returns the number of blocks that follow the header.
func (h Header) Blocks() int64 {
	if h.Count == 0 {
		return 0
	}
	return (h.Count + int64(h.BlockElements) - 1) / int64(h.BlockElements)
}

func (h Header) encode() []byte {
	buf := make([]byte, fixedHeaderSize, fixedHeaderSize+8*len(h.Shape)+4)
	copy(buf, magic[:])
	buf[4] = h.Version
	buf[5] = byte(h.Compression)
	binary.LittleEndian.PutUint16(buf[6:], uint16(len(h.Shape)))
	binary.LittleEndian.PutUint32(buf[8:], h.BlockElements)
	binary.LittleEndian.PutUint64(buf[12:], uint64(h.Count))
	for _, d := range h.Shape {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(d))
	}
	return binary.LittleEndian.AppendUint32(buf, hash.CRC32C(buf))
}

// ReadHeader reads and validates an archive header from r.
func ReadHeader(r io.Reader) (Header, error) {
	fixed := make([]byte, fixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return Header{}, truncated(err)
	}
	if [4]byte(fixed[:4]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, fixed[:4])
	}

	h := Header{
		Version:       fixed[4],
		Compression:   Compression(fixed[5]),
		BlockElements: binary.LittleEndian.Uint32(fixed[8:]),
		Count:         int64(binary.LittleEndian.Uint64(fixed[12:])),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: version %d", ErrUnsupported, h.Version)
	}
	if !h.Compression.valid() {
		return Header{}, fmt.Errorf("%w: %s", ErrUnsupported, h.Compression)
	}

	rank := int(binary.LittleEndian.Uint16(fixed[6:]))
	if rank == 0 || rank > MaxRank {
		return Header{}, fmt.Errorf("%w: rank %d", ErrCorrupt, rank)
	}
	if h.BlockElements == 0 || h.BlockElements > MaxBlockElements {
		return Header{}, fmt.Errorf("%w: block size %d", ErrCorrupt, h.BlockElements)
	}
	if h.Count < 0 || uint64(h.Count) > math.MaxInt64/elementSize {
		return Header{}, fmt.Errorf("%w: count %d", ErrCorrupt, h.Count)
	}

	rest := make([]byte, 8*rank+4)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Header{}, truncated(err)
	}
	sum := hash.UpdateCRC32C(hash.CRC32C(fixed), rest[:8*rank])
	if want := binary.LittleEndian.Uint32(rest[8*rank:]); sum != want {
		return Header{}, fmt.Errorf("%w: header checksum %08x, want %08x", ErrCorrupt, sum, want)
	}

	h.Shape = make(bufarray.Shape, rank)
	for i := range h.Shape {
		h.Shape[i] = int64(binary.LittleEndian.Uint64(rest[8*i:]))
	}
	count, err := h.Shape.Count()
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if count != h.Count {
		return Header{}, fmt.Errorf("%w: shape %s holds %d elements, header says %d", ErrCorrupt, h.Shape, count, h.Count)
	}
	return h, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrCorrupt, io.ErrUnexpectedEOF)
	}
	return err
}

func putFloats(dst []byte, src []float64) {
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[i*elementSize:], math.Float64bits(v))
	}
}

func getFloats(dst []float64, src []byte) {
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*elementSize:]))
	}
}
