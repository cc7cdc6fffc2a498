package resource

import (
	"context"
	"io"
)

// LimitedWriter charges every write against the controller's IO budget
// before passing it on.
type LimitedWriter struct {
	ctx context.Context
	w   io.Writer
	c   *Controller
}

// NewLimitedWriter wraps w. A nil controller or one without an IO limit
// never blocks.
func NewLimitedWriter(ctx context.Context, w io.Writer, c *Controller) *LimitedWriter {
	return &LimitedWriter{ctx: ctx, w: w, c: c}
}

func (w *LimitedWriter) Write(p []byte) (int, error) {
	if err := w.c.AcquireIO(w.ctx, int64(len(p))); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}

// LimitedReader charges the bytes actually read against the controller's
// IO budget.
type LimitedReader struct {
	ctx context.Context
	r   io.Reader
	c   *Controller
}

// NewLimitedReader wraps r.
func NewLimitedReader(ctx context.Context, r io.Reader, c *Controller) *LimitedReader {
	return &LimitedReader{ctx: ctx, r: r, c: c}
}

func (r *LimitedReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.c.AcquireIO(r.ctx, int64(n)); werr != nil {
			return n, werr
		}
	}
	return n, err
}
