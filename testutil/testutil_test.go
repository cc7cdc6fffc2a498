package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillUniformRange(t *testing.T) {
	rng := NewRNG(4711)

	v := make([]float64, 256)
	rng.FillUniformRange(v, -1, 1)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, -1.0)
		assert.Less(t, x, 1.0)
	}

	rng.FillUniform(v)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Gaussian(10)

	rng.Reset()
	v2 := rng.Gaussian(10)

	assert.Equal(t, v1, v2)
	assert.Equal(t, uint64(4711), rng.Seed())
}

func TestProgression(t *testing.T) {
	rng := NewRNG(1)
	for range 1000 {
		first, limit, step := rng.Progression(50, 4)
		assert.GreaterOrEqual(t, first, int64(0))
		assert.LessOrEqual(t, first, limit)
		assert.LessOrEqual(t, limit, int64(50))
		assert.GreaterOrEqual(t, step, int64(1))
		assert.LessOrEqual(t, step, int64(4))
	}
}

func TestZipfIndices(t *testing.T) {
	rng := NewRNG(42)
	idx := rng.ZipfIndices(10000, 100, 1.5)

	counts := make([]int, 100)
	for _, i := range idx {
		assert.Less(t, i, uint64(100))
		counts[i]++
	}
	// Index 0 is the most popular under any positive skew.
	for _, c := range counts[1:] {
		assert.GreaterOrEqual(t, counts[0], c)
	}
	assert.Zero(t, rng.Zipf(1, 1.0))
}
