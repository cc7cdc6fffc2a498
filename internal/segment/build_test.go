package segment

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/fs"
)

func TestBuild_Threshold(t *testing.T) {
	f := NewMemoryFactory(Config{})

	st, err := Build(context.Background(), f, 256, 256, 100)
	require.NoError(t, err)
	_, single := st.(*Segment)
	assert.True(t, single, "count at threshold uses one segment")
	require.NoError(t, st.Close())

	st, err = Build(context.Background(), f, 257, 256, 100)
	require.NoError(t, err)
	defer st.Close()
	seg, ok := st.(*Segmented)
	require.True(t, ok)
	assert.Equal(t, int64(257), seg.Count())
	assert.Equal(t, int64(100), seg.SegmentCapacity())
	require.Len(t, seg.Segments(), 3)
	assert.Equal(t, int64(57), seg.Segments()[2].Count())
}

func TestBuild_Locate(t *testing.T) {
	st, err := Build(context.Background(), NewMemoryFactory(Config{}), 25, 0, 10)
	require.NoError(t, err)
	defer st.Close()
	seg := st.(*Segmented)

	for _, tc := range []struct {
		index        int64
		segment, loc int
	}{
		{0, 0, 0}, {9, 0, 9}, {10, 1, 0}, {19, 1, 9}, {24, 2, 4},
	} {
		s, l := seg.Locate(tc.index)
		assert.Equal(t, tc.segment, s, "segment of %d", tc.index)
		assert.Equal(t, tc.loc, l, "local index of %d", tc.index)
	}

	require.NoError(t, seg.Set(19, 4))
	v, err := seg.Segments()[1].Get(9)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestSegmented_StridesPastEnd(t *testing.T) {
	st, err := Build(context.Background(), NewMemoryFactory(Config{}), 10, 2, 4)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Fill(1, 10, math.MaxInt64, 9))
	require.NoError(t, st.Fill(6, 10, math.MaxInt64-3, 5))
	for i := int64(0); i < 10; i++ {
		want := 0.0
		switch i {
		case 1:
			want = 9
		case 6:
			want = 5
		}
		assert.Equal(t, want, st.Value(i), "index %d", i)
	}

	assert.ErrorIs(t, st.Exchange(0, 1, 4, math.MaxInt64/2), dense.ErrIndexOutOfBounds)

	src, err := Build(context.Background(), NewMemoryFactory(Config{}), 10, 2, 4)
	require.NoError(t, err)
	require.NoError(t, src.Close())
	assert.ErrorIs(t, st.Transform(0, 10, 1, src, dense.Negate), dense.ErrClosed)
}

func TestBuild_AllOrNothing(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	// Room for two segments of 4 elements, the third fails to grow the file.
	ffs.AddRule("partial.bin", fs.Fault{FailAfterBytes: -1, FailTruncateAbove: 64})

	f, err := NewFileFactory(ffs, filepath.Join(t.TempDir(), "partial.bin"), 0o644, Config{})
	require.NoError(t, err)
	file := f.file.file

	_, err = Build(context.Background(), f, 10, 0, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)

	// Only the factory still holds the file.
	assert.False(t, fs.IsClosed(file))
	require.NoError(t, f.Close())
	assert.True(t, fs.IsClosed(file))
}

func TestBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, NewMemoryFactory(Config{}), 10, 0, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_InvalidArguments(t *testing.T) {
	f := NewMemoryFactory(Config{})
	_, err := Build(context.Background(), f, -1, 0, 4)
	assert.Error(t, err)
	_, err = Build(context.Background(), f, 10, 0, 0)
	assert.Error(t, err)
}

func TestSegmented_CloseIsIdempotent(t *testing.T) {
	st, err := Build(context.Background(), NewMemoryFactory(Config{}), 9, 0, 4)
	require.NoError(t, err)
	seg := st.(*Segmented)

	require.NoError(t, seg.Close())
	require.NoError(t, seg.Close())
	assert.True(t, seg.Closed())
	for _, s := range seg.Segments() {
		assert.True(t, s.Closed())
	}
}

func TestSegmented_FlushMapped(t *testing.T) {
	f := fileFactory(t)
	defer f.Close()
	st, err := Build(context.Background(), f, 12, 0, 5)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Fill(0, 12, 1, 1.5))
	require.NoError(t, st.Flush())
	require.NoError(t, st.Advise(0))
}
