package testutil

import (
	"math"
	"math/rand/v2"
	"sync"
)

// RNG wraps a seeded generator. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Reset restarts the sequence from the initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Int64N returns a pseudo-random number in [0, n).
func (r *RNG) Int64N(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int64N(n)
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in [0, 1).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// FillUniformRange fills dst with random values in [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// FillGaussian fills dst with standard normal values.
func (r *RNG) FillGaussian(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.NormFloat64()
	}
}

// Gaussian returns n standard normal values.
func (r *RNG) Gaussian(n int) []float64 {
	v := make([]float64, n)
	r.FillGaussian(v)
	return v
}

// Supplier returns a function producing standard normal values, suitable
// for FillFunc.
func (r *RNG) Supplier() func() float64 {
	return func() float64 {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.rand.NormFloat64()
	}
}

// Progression returns a random (first, limit, step) with
// 0 <= first <= limit <= n and 1 <= step <= maxStep. Empty progressions are
// included.
func (r *RNG) Progression(n, maxStep int64) (first, limit, step int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	first = r.rand.Int64N(n + 1)
	limit = first + r.rand.Int64N(n-first+1)
	step = 1 + r.rand.Int64N(maxStep)
	return first, limit, step
}

// Zipf returns a Zipfian-distributed value in [0, n) with skew s.
// s=1.0 gives standard Zipf, s=1.5 a heavy tail.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// ZipfIndices returns k indices in [0, n) drawn from a Zipf distribution,
// modelling skewed access to a large array.
func (r *RNG) ZipfIndices(k, n int, s float64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint64, k)
	for i := range out {
		out[i] = uint64(r.zipfLocked(n, s))
	}
	return out
}
