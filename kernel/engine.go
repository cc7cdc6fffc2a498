package kernel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/resource"
	"github.com/hupe1980/bufarray/threshold"
)

// Engine runs kernels. It is safe for concurrent use.
type Engine struct {
	registry *threshold.Registry
	ctrl     *resource.Controller
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the threshold registry. Defaults to threshold.Default().
func WithRegistry(r *threshold.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithWorkers limits the number of concurrently running parts across all
// kernels of the engine. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.ctrl = resource.NewController(resource.Config{MaxWorkers: int64(n)})
	}
}

// NewEngine creates an Engine.
func NewEngine(optFns ...Option) *Engine {
	e := &Engine{registry: threshold.Default()}
	for _, fn := range optFns {
		if fn != nil {
			fn(e)
		}
	}
	if e.ctrl == nil {
		e.ctrl = resource.NewController(resource.Config{MaxWorkers: int64(runtime.GOMAXPROCS(0))})
	}
	return e
}

// Workers returns the worker limit.
func (e *Engine) Workers() int { return e.ctrl.MaxWorkers() }

// part is a contiguous sub-progression [first, limit) sharing the step of
// the full progression.
type part struct {
	first, limit int64
}

// partition returns the parts a progression is processed in: one part when
// the kernel runs sequentially, up to Workers parts otherwise.
func (e *Engine) partition(k threshold.Kernel, first, limit, step int64) []part {
	n := dense.Steps(first, limit, step)
	workers := int64(e.Workers())
	if workers <= 1 || n < 2 || !e.registry.Parallel(k, n) {
		return []part{{first, limit}}
	}
	per := (n + workers - 1) / workers
	parts := make([]part, 0, workers)
	for k := int64(0); k < n; k += per {
		last := min(k+per, n) - 1
		parts = append(parts, part{first + k*step, first + last*step + 1})
	}
	return parts
}

// run calls fn for every part. Parts run concurrently when there is more
// than one; the first error cancels the remaining ones.
func (e *Engine) run(ctx context.Context, parts []part, fn func(i int, p part) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(parts) == 1 {
		return fn(0, parts[0])
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		g.Go(func() error {
			if err := e.ctrl.AcquireWorker(gctx); err != nil {
				return err
			}
			defer e.ctrl.ReleaseWorker()
			return fn(i, p)
		})
	}
	return g.Wait()
}
