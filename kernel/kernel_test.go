package kernel

import (
	"context"
	"math"
	"testing"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bufarray"
	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/testutil"
	"github.com/hupe1980/bufarray/threshold"
)

func newSegmented(t *testing.T, n int64) *bufarray.Array {
	t.Helper()
	a, err := bufarray.New1D(n, bufarray.WithSegmentThreshold(16), bufarray.WithSegmentCapacity(13))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	for i := int64(0); i < n; i++ {
		require.NoError(t, a.Set(i, float64(i%17)-8))
	}
	return a
}

// engines returns a sequential engine and one that always fans out.
func engines() map[string]*Engine {
	parallel := threshold.NewRegistry()
	parallel.SetAll(1)
	return map[string]*Engine{
		"sequential": NewEngine(WithWorkers(1)),
		"parallel":   NewEngine(WithWorkers(4), WithRegistry(parallel)),
	}
}

func TestEngine_Partition(t *testing.T) {
	r := threshold.NewRegistry()
	r.SetAll(10)
	e := NewEngine(WithWorkers(3), WithRegistry(r))

	assert.Equal(t, []part{{0, 9}}, e.partition(threshold.AXPY, 0, 9, 1))
	assert.Equal(t, []part{{0, 4}, {4, 8}, {8, 10}}, e.partition(threshold.AXPY, 0, 10, 1))
	// Parts start on the progression and end just past their last index.
	assert.Equal(t, []part{{1, 8}, {9, 16}, {17, 20}}, e.partition(threshold.AXPY, 1, 21, 2))
	assert.Equal(t, []part{{0, 10}}, e.partition(threshold.AXPY, 0, 10, math.MaxInt64))

	assert.Equal(t, 3, e.Workers())
}

func TestEngine_Aggregates(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			a := newSegmented(t, 100)
			var want, wantAbs float64
			for i := int64(3); i < 100; i += 3 {
				v := a.Value(i)
				want += v
				wantAbs = math.Max(wantAbs, math.Abs(v))
			}

			got, err := e.Sum(context.Background(), a, 3, 100, 3)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-9)

			norm, err := e.NormInf(context.Background(), a, 3, 100, 3)
			require.NoError(t, err)
			assert.Equal(t, wantAbs, norm)

			_, err = e.Sum(context.Background(), a, 0, 101, 1)
			assert.ErrorIs(t, err, dense.ErrIndexOutOfBounds)
		})
	}
}

func TestEngine_ModifyAllAndAXPY(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			a := newSegmented(t, 64)
			require.NoError(t, e.ModifyAll(context.Background(), a, func(x float64) float64 { return 2 * x }))

			x := make(dense.Float64s, 64)
			for i := range x {
				x[i] = 1
			}
			require.NoError(t, e.AXPY(context.Background(), 0.5, x, a))

			for i := int64(0); i < 64; i++ {
				want := 2*(float64(i%17)-8) + 0.5
				v, err := a.Get(i)
				require.NoError(t, err)
				assert.Equal(t, want, v, "index %d", i)
			}

			assert.ErrorIs(t, e.AXPY(context.Background(), 1, x[:10], a), dense.ErrOperandMismatch)
		})
	}
}

func TestEngine_FillMatchingBoth(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			dst := newSegmented(t, 40)
			left := newSegmented(t, 40)
			require.NoError(t, e.FillMatchingBoth(context.Background(), dst, left, dense.Multiply, dense.Scalar(3)))
			for i := int64(0); i < 40; i++ {
				assert.Equal(t, 3*left.Value(i), dst.Value(i))
			}
		})
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			a := newSegmented(t, 32)
			assert.ErrorIs(t, e.ModifyAll(ctx, a, dense.Negate), context.Canceled)
		})
	}
}

func TestEngine_ClosedArray(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			a := newSegmented(t, 32)
			require.NoError(t, a.Close())
			assert.ErrorIs(t, e.ModifyAll(context.Background(), a, dense.Negate), dense.ErrClosed)
		})
	}
}

func TestEngine_WhereGatherScatter(t *testing.T) {
	e := NewEngine()
	a := newSegmented(t, 50)

	neg, err := e.Where(a, 0, 50, 1, func(x float64) bool { return x < 0 })
	require.NoError(t, err)
	for i := int64(0); i < 50; i++ {
		assert.Equal(t, a.Value(i) < 0, neg.Contains(uint64(i)), "index %d", i)
	}

	values, err := e.Gather(a, neg)
	require.NoError(t, err)
	require.Len(t, values, int(neg.GetCardinality()))
	for _, v := range values {
		assert.Less(t, v, 0.0)
	}

	for i := range values {
		values[i] = -values[i]
	}
	require.NoError(t, e.Scatter(a, neg, values))
	for i := int64(0); i < 50; i++ {
		assert.GreaterOrEqual(t, a.Value(i), 0.0)
	}

	strided, err := e.Where(a, 1, 50, 7, func(float64) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 8, 15, 22, 29, 36, 43}, strided.ToArray())
}

func TestEngine_SparseErrors(t *testing.T) {
	e := NewEngine()
	a := newSegmented(t, 10)

	_, err := e.Gather(a, roaring64.BitmapOf(3, 10))
	assert.ErrorIs(t, err, dense.ErrIndexOutOfBounds)

	assert.ErrorIs(t, e.Scatter(a, roaring64.BitmapOf(1, 2), []float64{1}), dense.ErrOperandMismatch)
	assert.ErrorIs(t, e.Scatter(a, roaring64.BitmapOf(1, math.MaxUint64), []float64{1, 2}), dense.ErrIndexOutOfBounds)

	empty, err := e.Gather(a, roaring64.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEngine_GatherSkewed(t *testing.T) {
	e := NewEngine()
	a := newSegmented(t, 200)
	rng := testutil.NewRNG(11)

	idx := roaring64.BitmapOf(rng.ZipfIndices(64, 200, 1.2)...)
	values, err := e.Gather(a, idx)
	require.NoError(t, err)

	it := idx.Iterator()
	for k := 0; it.HasNext(); k++ {
		assert.Equal(t, a.Value(int64(it.Next())), values[k])
	}

	noise := rng.Gaussian(len(values))
	require.NoError(t, e.Scatter(a, idx, noise))
	it = idx.Iterator()
	for k := 0; it.HasNext(); k++ {
		assert.Equal(t, noise[k], a.Value(int64(it.Next())))
	}
}

func BenchmarkEngine_Sum(b *testing.B) {
	a, err := bufarray.New1D(1<<20, bufarray.WithLogger(nil))
	require.NoError(b, err)
	defer a.Close()
	require.NoError(b, a.FillFunc(0, a.Count(), 1, testutil.NewRNG(7).Supplier()))
	e := NewEngine()

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		_, _ = e.Sum(context.Background(), a, 0, a.Count(), 1)
	}
}
