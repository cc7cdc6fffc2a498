package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a heap reservation does not fit the
// configured budget.
var ErrMemoryLimitExceeded = errors.New("resource: memory limit exceeded")

// Config holds the limits of one Controller. Zero values mean unlimited,
// except MaxWorkers which falls back to 1.
type Config struct {
	// MemoryLimitBytes caps heap-backed segment storage.
	MemoryLimitBytes int64

	// MaxWorkers caps concurrently running kernel chunks.
	MaxWorkers int64

	// IOLimitBytesPerSec caps mapping and archive throughput.
	IOLimitBytesPerSec int64
}

// Controller enforces the limits of a Config. A nil *Controller imposes no
// limits and tracks nothing.
type Controller struct {
	mem     heapBudget
	workers *semaphore.Weighted
	slots   int64
	io      *rate.Limiter
}

type heapBudget struct {
	limit int64
	sem   *semaphore.Weighted
	used  atomic.Int64
}

// NewController returns a Controller enforcing cfg.
func NewController(cfg Config) *Controller {
	slots := max(cfg.MaxWorkers, 1)
	c := &Controller{
		mem:     heapBudget{limit: max(cfg.MemoryLimitBytes, 0)},
		workers: semaphore.NewWeighted(slots),
		slots:   slots,
	}
	if c.mem.limit > 0 {
		c.mem.sem = semaphore.NewWeighted(c.mem.limit)
	}
	if bps := cfg.IOLimitBytesPerSec; bps > 0 {
		// One second of budget is the burst.
		c.io = rate.NewLimiter(rate.Limit(bps), int(bps))
	}
	return c
}

// AcquireMemory reserves bytes of heap budget. It never blocks: when the
// reservation does not fit it returns ErrMemoryLimitExceeded and the caller
// decides whether to retry.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.mem.sem != nil && !c.mem.sem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}
	c.mem.used.Add(bytes)
	return nil
}

// ReleaseMemory returns bytes previously reserved with AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	c.mem.used.Add(-bytes)
	if c.mem.sem != nil {
		c.mem.sem.Release(bytes)
	}
}

// MemoryUsage reports the heap bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.mem.used.Load()
}

// MemoryLimit reports the heap budget, 0 when unlimited.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.mem.limit
}

// MaxWorkers reports the number of worker slots.
func (c *Controller) MaxWorkers() int {
	if c == nil {
		return 1
	}
	return int(c.slots)
}

// AcquireWorker takes a worker slot, waiting until one is free or ctx ends.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquireWorker takes a worker slot if one is free.
func (c *Controller) TryAcquireWorker() bool {
	return c == nil || c.workers.TryAcquire(1)
}

// ReleaseWorker frees a slot taken by AcquireWorker or TryAcquireWorker.
func (c *Controller) ReleaseWorker() {
	if c != nil {
		c.workers.Release(1)
	}
}

// AcquireIO waits until bytes of IO budget are available. Requests larger
// than the burst are paid for in burst-sized installments.
func (c *Controller) AcquireIO(ctx context.Context, bytes int64) error {
	if c == nil || c.io == nil {
		return nil
	}
	burst := int64(c.io.Burst())
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.io.WaitN(ctx, int(n)); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}

// TryAcquireIO takes bytes of IO budget if they are available right now.
func (c *Controller) TryAcquireIO(bytes int) bool {
	if c == nil || c.io == nil {
		return true
	}
	return c.io.AllowN(time.Now(), bytes)
}
