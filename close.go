package bufarray

import (
	"context"
	"time"
)

// Close releases the array's memory or mapping and, for file-backed arrays,
// the file. Every segment is closed even if some fail. Close is idempotent;
// any other operation on a closed array returns ErrClosed.
//
// Modified pages of a mapped file are written back by the operating system
// after Close; call Flush first to write them synchronously.
func (a *Array) Close() error {
	if a == nil || a.closed.Swap(true) {
		return nil
	}
	start := time.Now()
	err := translateError(a.storage.Close())
	a.metrics.RecordClose(time.Since(start), err)
	a.logger.LogClose(context.Background(), a.path, err)
	return err
}

// Closed reports whether Close has been called.
func (a *Array) Closed() bool { return a.closed.Load() }
