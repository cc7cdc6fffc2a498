package threshold

import (
	"fmt"
	"sync"
)

// Default thresholds, in elements (or in rows/columns for the matrix kernels).
// Elementwise kernels amortize goroutine fan-out only on long runs; matrix
// kernels do O(n^2) or more work per unit and parallelize earlier.
const (
	DefaultElementwise = 1 << 17
	DefaultMatrix      = 64
	DefaultHouseholder = 128
)

var defaults = [numKernels]int{
	AggregateAll:                          DefaultElementwise,
	ApplyCholesky:                         DefaultMatrix,
	ApplyLU:                               DefaultMatrix,
	AXPY:                                  DefaultElementwise,
	FillConjugated:                        DefaultElementwise,
	FillMatchingBoth:                      DefaultElementwise,
	FillMatchingLeft:                      DefaultElementwise,
	FillMatchingRight:                     DefaultElementwise,
	FillMatchingSingle:                    DefaultElementwise,
	FillTransposed:                        DefaultMatrix,
	GenerateApplyAndCopyHouseholderColumn: DefaultHouseholder,
	GenerateApplyAndCopyHouseholderRow:    DefaultHouseholder,
	HermitianRank2Update:                  DefaultMatrix,
	HouseholderHermitian:                  DefaultHouseholder,
	HouseholderLeft:                       DefaultHouseholder,
	HouseholderRight:                      DefaultHouseholder,
	MAXPY:                                 DefaultElementwise,
	ModifyAll:                             DefaultElementwise,
	MultiplyBoth:                          DefaultMatrix,
	MultiplyHermitianAndVector:            DefaultMatrix,
	MultiplyLeft:                          DefaultMatrix,
	MultiplyRight:                         DefaultMatrix,
	RotateLeft:                            DefaultMatrix,
	RotateRight:                           DefaultMatrix,
	SubstituteBackwards:                   DefaultMatrix,
	SubstituteForwards:                    DefaultMatrix,
	SubtractScaledVector:                  DefaultElementwise,
}

// Registry maps every kernel to its sequential/parallel cutover.
//
// The kernel set is fixed; values change only through ClampMax, ClampMin and
// SetAll. A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	values [numKernels]int
}

// NewRegistry returns a registry initialized with the built-in defaults.
func NewRegistry() *Registry {
	return &Registry{values: defaults}
}

// Get returns the threshold of k.
func (r *Registry) Get(k Kernel) int {
	if !k.Valid() {
		panic(fmt.Sprintf("threshold: unknown kernel %d", k))
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[k]
}

// Parallel reports whether a kernel invocation over n units may use a
// parallel strategy. Below the threshold the kernel runs sequentially.
func (r *Registry) Parallel(k Kernel, n int64) bool {
	return n >= int64(r.Get(k))
}

// ClampMax lowers every threshold above value to value.
func (r *Registry) ClampMax(value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clampMax(value)
}

// ClampMin raises every threshold below value to value.
func (r *Registry) ClampMin(value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clampMin(value)
}

// SetAll sets every threshold to exactly value by clamping from above and
// then from below under a single lock.
func (r *Registry) SetAll(value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clampMax(value)
	r.clampMin(value)
}

// Reset restores the built-in defaults.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = defaults
}

// Snapshot returns a copy of all thresholds keyed by kernel.
func (r *Registry) Snapshot() map[Kernel]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Kernel]int, numKernels)
	for k, v := range r.values {
		out[Kernel(k)] = v
	}
	return out
}

func (r *Registry) clampMax(value int) {
	for k := range r.values {
		r.values[k] = min(r.values[k], value)
	}
}

func (r *Registry) clampMin(value int) {
	for k := range r.values {
		r.values[k] = max(r.values[k], value)
	}
}

// Defaults returns the built-in default thresholds keyed by kernel.
func Defaults() map[Kernel]int {
	out := make(map[Kernel]int, numKernels)
	for k, v := range defaults {
		out[Kernel(k)] = v
	}
	return out
}
