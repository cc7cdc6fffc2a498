package bufarray

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_Count(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int64
	}{
		{Shape{7}, 7},
		{Shape{3, 4}, 12},
		{Shape{2, 3, 4}, 24},
		{Shape{5, 0, 3}, 0},
		{Shape{math.MaxInt64, 0}, 0},
		{Shape{1 << 31, 1 << 31}, 1 << 62},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			got, err := tt.shape.Count()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Shape{1 << 32, 1 << 32}.Count()
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestShape_IndexRoundTrip(t *testing.T) {
	s := Shape{3, 4, 2}
	seen := make(map[int64]bool)
	for k := int64(0); k < 2; k++ {
		for j := int64(0); j < 4; j++ {
			for i := int64(0); i < 3; i++ {
				flat, err := s.Index(i, j, k)
				require.NoError(t, err)
				assert.Equal(t, i+3*j+12*k, flat)
				assert.False(t, seen[flat])
				seen[flat] = true

				coords, err := s.Coordinates(flat)
				require.NoError(t, err)
				assert.Equal(t, []int64{i, j, k}, coords)
			}
		}
	}
	assert.Len(t, seen, 24)
}

func TestShape_IndexErrors(t *testing.T) {
	s := Shape{3, 4}
	_, err := s.Index(1)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	_, err = s.Index(0, 4)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	_, err = s.Index(-1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	_, err = s.Coordinates(12)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "[3x4]", Shape{3, 4}.String())
	assert.Equal(t, "[]", Shape{}.String())
	assert.Equal(t, 2, Shape{3, 4}.Rank())
}
