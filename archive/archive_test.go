package archive

import (
	"bytes"
	"context"
	"encoding/binary"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bufarray"
	"github.com/hupe1980/bufarray/blobstore"
	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/testutil"
)

func quiet(opts ...bufarray.Option) []bufarray.Option {
	return append([]bufarray.Option{bufarray.WithLogger(nil)}, opts...)
}

func newRandom(t *testing.T, shape bufarray.Shape, opts ...bufarray.Option) *bufarray.Array {
	t.Helper()
	a, err := bufarray.New(shape, quiet(opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.FillFunc(0, a.Count(), 1, testutil.NewRNG(3).Supplier()))
	return a
}

func values(t *testing.T, d dense.Dense) []float64 {
	t.Helper()
	out := make([]float64, 0, d.Count())
	require.NoError(t, d.Visit(0, d.Count(), 1, dense.VisitorFunc(func(v float64) {
		out = append(out, v)
	})))
	return out
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	segmented := []bufarray.Option{bufarray.WithSegmentThreshold(8), bufarray.WithSegmentCapacity(11)}

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			src := newRandom(t, bufarray.Shape{6, 9}, segmented...)
			require.NoError(t, src.Set(3, math.NaN()))
			require.NoError(t, src.Set(4, math.Inf(-1)))

			var buf bytes.Buffer
			stats, err := Export(ctx, &buf, src, WithCompression(c), WithBlockElements(7))
			require.NoError(t, err)
			assert.Equal(t, int64(54), stats.Elements)
			assert.Equal(t, int64(8), stats.Blocks)
			assert.Equal(t, int64(54*8), stats.RawBytes)
			assert.Equal(t, int64(buf.Len()), stats.StoredBytes)

			dst, err := bufarray.New(bufarray.Shape{54}, quiet()...)
			require.NoError(t, err)
			defer dst.Close()

			h, err := Import(ctx, &buf, dst)
			require.NoError(t, err)
			assert.Equal(t, Version, h.Version)
			assert.Equal(t, c, h.Compression)
			assert.Equal(t, uint32(7), h.BlockElements)
			assert.Equal(t, bufarray.Shape{6, 9}, h.Shape)
			assert.Equal(t, int64(8), h.Blocks())

			want, got := values(t, src), values(t, dst)
			require.Len(t, got, len(want))
			for i := range want {
				if math.IsNaN(want[i]) {
					assert.True(t, math.IsNaN(got[i]), "index %d", i)
					continue
				}
				assert.Equal(t, want[i], got[i], "index %d", i)
			}
		})
	}
}

func TestExport_Compresses(t *testing.T) {
	ctx := context.Background()
	a, err := bufarray.New1D(4096, quiet()...)
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Fill(0, 4096, 1, 1.5))

	var none, lz, zs bytes.Buffer
	_, err = Export(ctx, &none, a, WithCompression(CompressionNone))
	require.NoError(t, err)
	_, err = Export(ctx, &lz, a, WithCompression(CompressionLZ4))
	require.NoError(t, err)
	_, err = Export(ctx, &zs, a, WithCompression(CompressionZSTD))
	require.NoError(t, err)

	assert.Equal(t, 32+blockHeaderSize+4096*8, none.Len())
	assert.Less(t, lz.Len(), none.Len()/10)
	assert.Less(t, zs.Len(), none.Len()/10)
}

func TestExport_Layout(t *testing.T) {
	var buf bytes.Buffer
	_, err := Export(context.Background(), &buf, dense.Float64s{1, -2}, WithCompression(CompressionNone))
	require.NoError(t, err)

	b := buf.Bytes()
	require.Len(t, b, 32+blockHeaderSize+16)
	assert.Equal(t, "BUFA", string(b[:4]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(b[6:]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(b[12:]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(b[20:]))

	block := b[32:]
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(block[0:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(block[4:]))
	assert.Equal(t, math.Float64bits(1), binary.LittleEndian.Uint64(block[12:]))
	assert.Equal(t, math.Float64bits(-2), binary.LittleEndian.Uint64(block[20:]))
}

func TestExport_Empty(t *testing.T) {
	ctx := context.Background()
	a, err := bufarray.New2D(0, 5, quiet()...)
	require.NoError(t, err)
	defer a.Close()

	var buf bytes.Buffer
	stats, err := Export(ctx, &buf, a)
	require.NoError(t, err)
	assert.Zero(t, stats.Blocks)

	h, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, bufarray.Shape{0, 5}, h.Shape)
	assert.Zero(t, h.Blocks())
}

func TestExport_Errors(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	_, err := Export(ctx, &buf, dense.Float64s{1, 2, 3}, WithShape(bufarray.Shape{2, 2}))
	assert.ErrorIs(t, err, bufarray.ErrInvalidShape)

	_, err = Export(ctx, &buf, dense.Float64s{1}, WithCompression(Compression(9)))
	assert.ErrorIs(t, err, ErrUnsupported)

	a, err := bufarray.New1D(4, quiet()...)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	_, err = Export(ctx, &buf, a)
	assert.ErrorIs(t, err, bufarray.ErrClosed)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Export(canceled, &buf, dense.Float64s{1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImport_Corrupt(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	_, err := Export(ctx, &buf, dense.Float64s{1, 2, 3, 4, 5}, WithCompression(CompressionNone), WithBlockElements(2))
	require.NoError(t, err)
	good := buf.Bytes()

	dst := func(t *testing.T, n int64) *bufarray.Array {
		a, err := bufarray.New1D(n, quiet()...)
		require.NoError(t, err)
		t.Cleanup(func() { _ = a.Close() })
		return a
	}

	t.Run("Magic", func(t *testing.T) {
		b := bytes.Clone(good)
		b[0] = 'X'
		_, err := Import(ctx, bytes.NewReader(b), dst(t, 5))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Version", func(t *testing.T) {
		b := bytes.Clone(good)
		b[4] = 2
		_, err := Import(ctx, bytes.NewReader(b), dst(t, 5))
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("HeaderChecksum", func(t *testing.T) {
		b := bytes.Clone(good)
		b[20]++
		_, err := Import(ctx, bytes.NewReader(b), dst(t, 5))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("BlockChecksum", func(t *testing.T) {
		b := bytes.Clone(good)
		b[len(b)-1] ^= 0xff
		_, err := Import(ctx, bytes.NewReader(b), dst(t, 5))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Truncated", func(t *testing.T) {
		for _, n := range []int{0, 10, 31, 40, len(good) - 1} {
			_, err := Import(ctx, bytes.NewReader(good[:n]), dst(t, 5))
			assert.ErrorIs(t, err, ErrCorrupt, "length %d", n)
		}
	})

	t.Run("CountMismatch", func(t *testing.T) {
		_, err := Import(ctx, bytes.NewReader(good), dst(t, 6))
		assert.ErrorIs(t, err, bufarray.ErrOperandMismatch)
	})
}

func TestSaveLoadRestore(t *testing.T) {
	ctx := context.Background()
	stores := map[string]blobstore.Store{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			src := newRandom(t, bufarray.Shape{10, 10})

			stats, err := Save(ctx, store, "arrays/m.bfa", src,
				WithCompression(CompressionZSTD), WithBlockElements(16), WithIOLimit(1<<20))
			require.NoError(t, err)
			assert.Equal(t, int64(7), stats.Blocks)

			dst, err := bufarray.New1D(100, quiet()...)
			require.NoError(t, err)
			defer dst.Close()
			h, err := Load(ctx, store, "arrays/m.bfa", dst, WithIOLimit(1<<20))
			require.NoError(t, err)
			assert.Equal(t, bufarray.Shape{10, 10}, h.Shape)
			assert.Equal(t, values(t, src), values(t, dst))

			path := filepath.Join(t.TempDir(), "restored.bin")
			restored, err := Restore(ctx, store, "arrays/m.bfa", path,
				quiet(bufarray.WithSegmentThreshold(16), bufarray.WithSegmentCapacity(30)))
			require.NoError(t, err)
			defer restored.Close()
			assert.True(t, restored.Mapped())
			assert.Equal(t, 4, restored.Segments())
			assert.Equal(t, bufarray.Shape{10, 10}, restored.Shape())
			assert.Equal(t, values(t, src), values(t, restored))

			heap, err := Restore(ctx, store, "arrays/m.bfa", "", quiet())
			require.NoError(t, err)
			defer heap.Close()
			assert.False(t, heap.Mapped())
			assert.Equal(t, values(t, src), values(t, heap))

			_, err = Load(ctx, store, "missing.bfa", dst)
			assert.ErrorIs(t, err, blobstore.ErrNotFound)
		})
	}
}

func TestSave_FailureIsNotPublished(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	a, err := bufarray.New1D(8, quiet()...)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = Save(ctx, store, "closed.bfa", a)
	require.ErrorIs(t, err, bufarray.ErrClosed)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRestore_CorruptClosesArray(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	var buf bytes.Buffer
	_, err := Export(ctx, &buf, dense.Float64s{1, 2, 3, 4}, WithCompression(CompressionNone), WithBlockElements(2))
	require.NoError(t, err)
	b := buf.Bytes()
	b[len(b)-3] ^= 0x01
	require.NoError(t, store.Put(ctx, "bad.bfa", b))

	a, err := Restore(ctx, store, "bad.bfa", "", quiet())
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Nil(t, a)
}

func TestSave_Logging(t *testing.T) {
	var out bytes.Buffer
	logger := bufarray.NewLogger(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := blobstore.NewMemoryStore()

	_, err := Save(context.Background(), store, "log.bfa", dense.Float64s{1, 2}, WithLogger(logger))
	require.NoError(t, err)
	_, err = Load(context.Background(), store, "nope.bfa", nil, WithLogger(logger))
	require.Error(t, err)

	assert.Contains(t, out.String(), `"msg":"save completed"`)
	assert.Contains(t, out.String(), `"elements":2`)
	assert.Contains(t, out.String(), `"msg":"load failed"`)
}
