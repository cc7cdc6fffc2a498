// Package testutil provides deterministic random data for tests and
// benchmarks.
//
//	rng := testutil.NewRNG(seed)
//	vals := make([]float64, 128)
//	rng.FillUniform(vals)      // uniform [0, 1)
//	rng.FillGaussian(vals)     // standard normal
//
//	first, limit, step := rng.Progression(n, 8)
//	err := a.FillFunc(first, limit, step, rng.Supplier())
package testutil
