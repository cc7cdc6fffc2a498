// Package densetest provides a behavioural test suite shared by every
// dense.Dense implementation.
package densetest

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/testutil"
)

// Constructor returns a new, zero-filled array of count elements.
// Implementations register cleanup (Close) on t themselves if needed.
type Constructor func(t *testing.T, count int64) dense.Dense

// Run executes the suite against arrays created by newDense.
func Run(t *testing.T, newDense Constructor) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, newDense Constructor)
	}{
		{"ZeroFilled", testZeroFilled},
		{"GetSet", testGetSet},
		{"FillProgression", testFillProgression},
		{"InvalidRanges", testInvalidRanges},
		{"FillFuncOrder", testFillFuncOrder},
		{"ModifyTransformApply", testModifyTransformApply},
		{"OperandMismatch", testOperandMismatch},
		{"ClosedOperand", testClosedOperand},
		{"HugeStep", testHugeStep},
		{"VisitOrder", testVisitOrder},
		{"Exchange", testExchange},
		{"ExchangeHugeRun", testExchangeHugeRun},
		{"SortSearch", testSortSearch},
		{"SortNaN", testSortNaN},
		{"IndexOfLargest", testIndexOfLargest},
		{"MatchesReference", testMatchesReference},
		{"Close", testClose},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { tt.fn(t, newDense) })
	}
}

func values(t *testing.T, d dense.Dense) []float64 {
	t.Helper()
	out := make([]float64, d.Count())
	for i := range out {
		v, err := d.Get(int64(i))
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func setIndices(t *testing.T, d dense.Dense) {
	t.Helper()
	for i := int64(0); i < d.Count(); i++ {
		require.NoError(t, d.Set(i, float64(i)))
	}
}

func testZeroFilled(t *testing.T, newDense Constructor) {
	d := newDense(t, 33)
	assert.Equal(t, int64(33), d.Count())
	for _, v := range values(t, d) {
		assert.Zero(t, v)
	}
}

func testGetSet(t *testing.T, newDense Constructor) {
	d := newDense(t, 25)
	setIndices(t, d)
	for i := int64(0); i < 25; i++ {
		v, err := d.Get(i)
		require.NoError(t, err)
		assert.Equal(t, float64(i), v)
		assert.Equal(t, float64(i), d.Value(i))
	}

	_, err := d.Get(-1)
	assert.ErrorIs(t, err, dense.ErrIndexOutOfBounds)
	_, err = d.Get(25)
	assert.ErrorIs(t, err, dense.ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Set(25, 1), dense.ErrIndexOutOfBounds)
}

func testFillProgression(t *testing.T, newDense Constructor) {
	d := newDense(t, 10)
	require.NoError(t, d.Fill(2, 10, 3, 9))
	assert.Equal(t, []float64{0, 0, 9, 0, 0, 9, 0, 0, 9, 0}, values(t, d))

	// Empty progression is a no-op.
	require.NoError(t, d.Fill(4, 4, 1, 1))
	assert.Equal(t, []float64{0, 0, 9, 0, 0, 9, 0, 0, 9, 0}, values(t, d))
}

func testInvalidRanges(t *testing.T, newDense Constructor) {
	d := newDense(t, 10)
	assert.ErrorIs(t, d.Fill(0, 10, 0, 1), dense.ErrInvalidStep)
	assert.ErrorIs(t, d.Fill(0, 11, 1, 1), dense.ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Fill(-1, 5, 1, 1), dense.ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Fill(6, 5, 1, 1), dense.ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Visit(0, 11, 1, &dense.Sum{}), dense.ErrIndexOutOfBounds)
	_, err := d.IndexOfLargest(0, 10, -1)
	assert.ErrorIs(t, err, dense.ErrInvalidStep)

	// Rejected calls leave the array untouched.
	for _, v := range values(t, d) {
		assert.Zero(t, v)
	}
}

func testFillFuncOrder(t *testing.T, newDense Constructor) {
	d := newDense(t, 40)
	var next float64
	require.NoError(t, d.FillFunc(1, 40, 2, func() float64 {
		next++
		return next
	}))
	got := values(t, d)
	for i := range got {
		if i%2 == 1 {
			assert.Equal(t, float64(i/2+1), got[i], "index %d", i)
		} else {
			assert.Zero(t, got[i], "index %d", i)
		}
	}
}

func testModifyTransformApply(t *testing.T, newDense Constructor) {
	d := newDense(t, 12)
	setIndices(t, d)

	require.NoError(t, d.Modify(1, 12, 2, dense.Negate))
	assert.Equal(t, []float64{0, -1, 2, -3, 4, -5, 6, -7, 8, -9, 10, -11}, values(t, d))

	require.NoError(t, d.Transform(0, 12, 1, d, dense.Abs))
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, values(t, d))

	// a[i] = a[i] + 1 using the array itself as the left operand.
	require.NoError(t, d.Apply(0, 12, 1, d, dense.Add, dense.Scalar(1)))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, values(t, d))

	other := make(dense.Float64s, 12)
	for i := range other {
		other[i] = 2
	}
	require.NoError(t, d.Apply(0, 6, 1, dense.Scalar(3), dense.Multiply, other))
	assert.Equal(t, []float64{6, 6, 6, 6, 6, 6, 7, 8, 9, 10, 11, 12}, values(t, d))
}

func testOperandMismatch(t *testing.T, newDense Constructor) {
	d := newDense(t, 8)
	short := make(dense.Float64s, 4)
	assert.ErrorIs(t, d.Transform(0, 8, 1, short, dense.Abs), dense.ErrOperandMismatch)
	assert.ErrorIs(t, d.Apply(0, 8, 1, d, dense.Add, short), dense.ErrOperandMismatch)
	assert.ErrorIs(t, d.Apply(0, 8, 1, nil, dense.Add, d), dense.ErrOperandMismatch)

	// A shorter operand is fine when the range stays within it.
	assert.NoError(t, d.Transform(0, 4, 1, short, dense.Abs))
}

func testClosedOperand(t *testing.T, newDense Constructor) {
	src := newDense(t, 10)
	setIndices(t, src)
	require.NoError(t, src.Close())

	d := newDense(t, 10)
	assert.ErrorIs(t, d.Transform(0, 10, 1, src, dense.Negate), dense.ErrClosed)
	assert.ErrorIs(t, d.Apply(0, 10, 1, src, dense.Add, dense.Scalar(1)), dense.ErrClosed)
	assert.ErrorIs(t, d.Apply(0, 10, 1, dense.Scalar(1), dense.Add, src), dense.ErrClosed)

	for _, v := range values(t, d) {
		assert.Zero(t, v)
	}
}

// testHugeStep uses strides whose next index does not fit in an int64.
func testHugeStep(t *testing.T, newDense Constructor) {
	d := newDense(t, 10)
	require.NoError(t, d.Fill(1, 10, math.MaxInt64, 9))
	assert.Equal(t, []float64{0, 9, 0, 0, 0, 0, 0, 0, 0, 0}, values(t, d))

	require.NoError(t, d.Modify(1, 10, math.MaxInt64-1, dense.Negate))
	require.NoError(t, d.FillFunc(3, 10, math.MaxInt64, func() float64 { return 4 }))
	require.NoError(t, d.Transform(5, 10, math.MaxInt64, dense.Scalar(2), dense.Negate))
	require.NoError(t, d.Apply(7, 10, math.MaxInt64, dense.Scalar(2), dense.Multiply, dense.Scalar(3)))
	assert.Equal(t, []float64{0, -9, 0, 4, 0, -2, 0, 6, 0, 0}, values(t, d))

	var seen []float64
	require.NoError(t, d.Visit(1, 10, math.MaxInt64, dense.VisitorFunc(func(v float64) {
		seen = append(seen, v)
	})))
	assert.Equal(t, []float64{-9}, seen)

	i, err := d.IndexOfLargest(3, 10, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, int64(3), i)
}

func testExchangeHugeRun(t *testing.T, newDense Constructor) {
	d := newDense(t, 10)
	setIndices(t, d)

	assert.ErrorIs(t, d.Exchange(0, 1, 4, math.MaxInt64/2), dense.ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Exchange(0, 1, math.MaxInt64, 2), dense.ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Exchange(0, 1, 1, math.MaxInt64), dense.ErrIndexOutOfBounds)

	require.NoError(t, d.Exchange(2, 7, math.MaxInt64, 1))
	assert.Equal(t, []float64{0, 1, 7, 3, 4, 5, 6, 2, 8, 9}, values(t, d))
}

func testVisitOrder(t *testing.T, newDense Constructor) {
	d := newDense(t, 30)
	setIndices(t, d)

	var seen []float64
	require.NoError(t, d.Visit(3, 30, 4, dense.VisitorFunc(func(v float64) {
		seen = append(seen, v)
	})))
	assert.Equal(t, []float64{3, 7, 11, 15, 19, 23, 27}, seen)

	sum := &dense.Sum{}
	require.NoError(t, d.Visit(0, 30, 1, sum))
	assert.Equal(t, float64(29*30/2), sum.Result())
}

func testExchange(t *testing.T, newDense Constructor) {
	d := newDense(t, 10)
	setIndices(t, d)

	require.NoError(t, d.Exchange(0, 5, 1, 3))
	assert.Equal(t, []float64{5, 6, 7, 3, 4, 0, 1, 2, 8, 9}, values(t, d))

	require.NoError(t, d.Exchange(1, 2, 2, 4))
	assert.Equal(t, []float64{5, 7, 6, 4, 3, 1, 0, 8, 2, 9}, values(t, d))

	assert.ErrorIs(t, d.Exchange(0, 8, 1, 3), dense.ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Exchange(0, 1, 0, 3), dense.ErrInvalidStep)
	assert.NoError(t, d.Exchange(0, 9, 1, 0))
}

func testSortSearch(t *testing.T, newDense Constructor) {
	const n = 50
	d := newDense(t, n)
	for i := int64(0); i < n; i++ {
		require.NoError(t, d.Set(i, float64(2*(n-i))))
	}
	require.NoError(t, d.SortAscending())

	got := values(t, d)
	assert.True(t, slices.IsSorted(got))
	assert.Equal(t, float64(2), got[0])
	assert.Equal(t, float64(2*n), got[n-1])

	i, found := d.SearchAscending(20)
	assert.True(t, found)
	assert.Equal(t, int64(9), i)

	i, found = d.SearchAscending(21)
	assert.False(t, found)
	assert.Equal(t, int64(10), i)

	i, found = d.SearchAscending(1000)
	assert.False(t, found)
	assert.Equal(t, int64(n), i)
}

func testSortNaN(t *testing.T, newDense Constructor) {
	d := newDense(t, 5)
	require.NoError(t, d.Set(0, 3))
	require.NoError(t, d.Set(1, math.NaN()))
	require.NoError(t, d.Set(2, -1))
	require.NoError(t, d.Set(3, math.Inf(1)))
	require.NoError(t, d.Set(4, 0))
	require.NoError(t, d.SortAscending())

	got := values(t, d)
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, []float64{-1, 0, 3, math.Inf(1)}, got[1:])
}

func testIndexOfLargest(t *testing.T, newDense Constructor) {
	d := newDense(t, 20)
	require.NoError(t, d.Set(3, -7))
	require.NoError(t, d.Set(11, 7))
	require.NoError(t, d.Set(17, 5))

	i, err := d.IndexOfLargest(0, 20, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), i, "earliest of equal magnitudes wins")

	i, err = d.IndexOfLargest(4, 20, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(11), i)

	i, err = d.IndexOfLargest(1, 20, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(17), i)

	i, err = d.IndexOfLargest(5, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i)

	require.NoError(t, d.Set(0, math.NaN()))
	i, err = d.IndexOfLargest(0, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), i, "NaN never wins")
}

// testMatchesReference runs random progressions against a plain slice.
func testMatchesReference(t *testing.T, newDense Constructor) {
	const n = 97
	d := newDense(t, n)
	ref := make([]float64, n)
	rng := testutil.NewRNG(1)

	for round := 0; round < 200; round++ {
		first, limit, step := rng.Progression(n, 9)
		value := float64(round)

		switch round % 3 {
		case 0:
			require.NoError(t, d.Fill(first, limit, step, value))
			for i := first; i < limit; i += step {
				ref[i] = value
			}
		case 1:
			fn := func(x float64) float64 { return x*0.5 + value }
			require.NoError(t, d.Modify(first, limit, step, fn))
			for i := first; i < limit; i += step {
				ref[i] = fn(ref[i])
			}
		case 2:
			var got, want []float64
			require.NoError(t, d.Visit(first, limit, step, dense.VisitorFunc(func(v float64) {
				got = append(got, v)
			})))
			for i := first; i < limit; i += step {
				want = append(want, ref[i])
			}
			require.Equal(t, want, got, "visit [%d, %d) step %d", first, limit, step)
		}
	}
	assert.Equal(t, ref, values(t, d))
}

func testClose(t *testing.T, newDense Constructor) {
	d := newDense(t, 8)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err := d.Get(0)
	assert.ErrorIs(t, err, dense.ErrClosed)
	assert.ErrorIs(t, d.Set(0, 1), dense.ErrClosed)
	assert.ErrorIs(t, d.Fill(0, 8, 1, 1), dense.ErrClosed)
	assert.ErrorIs(t, d.SortAscending(), dense.ErrClosed)
	_, err = d.IndexOfLargest(0, 8, 1)
	assert.ErrorIs(t, err, dense.ErrClosed)

	i, found := d.SearchAscending(0)
	assert.Equal(t, int64(-1), i)
	assert.False(t, found)
}
