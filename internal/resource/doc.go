// Package resource bounds what an array may consume.
//
// A [Controller] tracks three budgets:
//
//   - heap bytes reserved by in-memory segments, failing fast with
//     [ErrMemoryLimitExceeded]
//   - worker slots used by the parallel kernels
//   - IO throughput, charged when file segments are mapped and when archives
//     are streamed through [NewLimitedWriter] or [NewLimitedReader]
//
// Every method accepts a nil *Controller and then behaves as unlimited.
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
//	if err := rc.AcquireMemory(segmentBytes); err != nil {
//		return err
//	}
//	defer rc.ReleaseMemory(segmentBytes)
package resource
