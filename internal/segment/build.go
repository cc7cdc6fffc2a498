package segment

import (
	"context"
	"fmt"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/mmap"
)

// Storage is what Build returns: either a single *Segment or a *Segmented.
type Storage interface {
	dense.Dense
	dense.Flusher
	Advise(pattern mmap.AccessPattern) error
}

// Build creates storage for count elements. Counts up to threshold get a
// single segment; larger counts are split into segments of capacity
// elements. Construction is all-or-nothing: if any segment fails, the ones
// already created are closed and the error is returned.
func Build(ctx context.Context, f *Factory, count, threshold, capacity int64) (Storage, error) {
	if count < 0 {
		return nil, fmt.Errorf("segment: negative count %d", count)
	}
	if count <= threshold {
		s, err := f.Next(ctx, count)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	if capacity < 1 {
		return nil, fmt.Errorf("segment: invalid segment capacity %d", capacity)
	}

	n := (count + capacity - 1) / capacity
	segs := make([]*Segment, 0, n)
	for remaining := count; remaining > 0; remaining -= capacity {
		s, err := f.Next(ctx, min(capacity, remaining))
		if err != nil {
			_ = closeAll(segs)
			return nil, err
		}
		segs = append(segs, s)
	}
	return NewSegmented(segs, capacity), nil
}
