package archive

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block codec.
type Compression uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// compress appends the compressed form of raw to dst[:0]. It returns nil
// when the codec does not shrink raw below 90% of its size.
func compress(c Compression, raw, dst []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var out []byte
	switch c {
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(raw))
		if cap(dst) < bound {
			dst = make([]byte, bound)
		}
		n, err := lz4.CompressBlock(raw, dst[:bound], nil)
		if err != nil {
			return nil, err
		}
		out = dst[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		out = enc.EncodeAll(raw, dst[:0])
		zstdEncoderPool.Put(enc)
	default:
		return nil, nil
	}

	if len(out) == 0 || len(out)*10 > len(raw)*9 {
		return nil, nil
	}
	return out, nil
}

// decompress expands stored into raw, which has the exact uncompressed size.
func decompress(c Compression, stored, raw []byte) error {
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
		}
		if n != len(raw) {
			return fmt.Errorf("%w: lz4 block size %d, want %d", ErrCorrupt, n, len(raw))
		}
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return err
		}
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(stored, raw[:0])
		if err != nil {
			return fmt.Errorf("%w: zstd: %v", ErrCorrupt, err)
		}
		if len(out) != len(raw) {
			return fmt.Errorf("%w: zstd block size %d, want %d", ErrCorrupt, len(out), len(raw))
		}
	default:
		return fmt.Errorf("%w: compressed block in %s archive", ErrCorrupt, c)
	}
	return nil
}
