package kernel

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/bufarray/dense"
)

func checkIndices(idx *roaring64.Bitmap, count int64) error {
	if idx.IsEmpty() {
		return nil
	}
	if largest := idx.Maximum(); largest > math.MaxInt64 || int64(largest) >= count {
		return &dense.IndexError{Index: int64(min(largest, math.MaxInt64)), Count: count}
	}
	return nil
}

// Where returns the indices of the progression whose values satisfy pred.
func (e *Engine) Where(a dense.Dense, first, limit, step int64, pred func(float64) bool) (*roaring64.Bitmap, error) {
	idx := roaring64.New()
	var k int64
	err := a.Visit(first, limit, step, dense.VisitorFunc(func(v float64) {
		if pred(v) {
			idx.Add(uint64(first + k*step))
		}
		k++
	}))
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Gather returns the values at idx in ascending index order.
func (e *Engine) Gather(a dense.Dense, idx *roaring64.Bitmap) ([]float64, error) {
	if err := checkIndices(idx, a.Count()); err != nil {
		return nil, err
	}
	out := make([]float64, 0, idx.GetCardinality())
	it := idx.Iterator()
	for it.HasNext() {
		v, err := a.Get(int64(it.Next()))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Scatter writes values to idx in ascending index order. values must hold
// exactly one value per index.
func (e *Engine) Scatter(a dense.Dense, idx *roaring64.Bitmap, values []float64) error {
	if uint64(len(values)) != idx.GetCardinality() {
		return dense.ErrOperandMismatch
	}
	if err := checkIndices(idx, a.Count()); err != nil {
		return err
	}
	it := idx.Iterator()
	for _, v := range values {
		if err := a.Set(int64(it.Next()), v); err != nil {
			return err
		}
	}
	return nil
}
