package archive

import (
	"bufio"
	"context"
	"errors"
	"time"

	"github.com/hupe1980/bufarray"
	"github.com/hupe1980/bufarray/blobstore"
	"github.com/hupe1980/bufarray/dense"
	"github.com/hupe1980/bufarray/internal/resource"
)

const ioBufferSize = 1 << 20

func (o options) controller() *resource.Controller {
	if o.ioLimit == 0 {
		return nil
	}
	return resource.NewController(resource.Config{IOLimitBytesPerSec: o.ioLimit})
}

// Save exports src to the blob name in store. The blob is only published
// when the export completes.
func Save(ctx context.Context, store blobstore.Store, name string, src dense.Source, optFns ...Option) (stats Stats, err error) {
	o := applyOptions(optFns)
	start := time.Now()
	defer func() {
		o.logger.LogTransfer(ctx, "save", name, stats.Elements, time.Since(start), err)
	}()

	wb, err := store.Create(ctx, name)
	if err != nil {
		return Stats{}, err
	}

	bw := bufio.NewWriterSize(resource.NewLimitedWriter(ctx, wb, o.controller()), ioBufferSize)
	stats, err = Export(ctx, bw, src, optFns...)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		abort(wb)
		return stats, err
	}
	if err = wb.Sync(); err != nil {
		abort(wb)
		return stats, err
	}
	return stats, wb.Close()
}

// abort discards a partially written blob. Stores whose blobs cannot be
// aborted publish what was written on Close; the archive is then detected
// as truncated on read.
func abort(wb blobstore.WritableBlob) {
	if a, ok := wb.(blobstore.Aborter); ok {
		_ = a.Abort()
		return
	}
	_ = wb.Close()
}

// Load reads the blob name from store into dst.
func Load(ctx context.Context, store blobstore.Store, name string, dst dense.Dense, optFns ...Option) (h Header, err error) {
	o := applyOptions(optFns)
	start := time.Now()
	defer func() {
		o.logger.LogTransfer(ctx, "load", name, h.Count, time.Since(start), err)
	}()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return Header{}, err
	}
	defer blob.Close()

	rc, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return Header{}, err
	}
	defer rc.Close()

	return Import(ctx, bufio.NewReaderSize(resource.NewLimitedReader(ctx, rc, o.controller()), ioBufferSize), dst)
}

// Restore creates an array with the archived shape and fills it from the
// blob name in store. An empty path creates a heap-backed array; otherwise
// the array is backed by the file at path. arrayOpts configure the new
// array. On failure the array is closed and nil is returned.
func Restore(ctx context.Context, store blobstore.Store, name, path string, arrayOpts []bufarray.Option, optFns ...Option) (a *bufarray.Array, err error) {
	o := applyOptions(optFns)
	start := time.Now()
	var count int64
	defer func() {
		o.logger.LogTransfer(ctx, "restore", name, count, time.Since(start), err)
	}()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	rc, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ar, err := NewReader(bufio.NewReaderSize(resource.NewLimitedReader(ctx, rc, o.controller()), ioBufferSize))
	if err != nil {
		return nil, err
	}
	h := ar.Header()

	if path == "" {
		a, err = bufarray.New(h.Shape, arrayOpts...)
	} else {
		a, err = bufarray.Open(ctx, path, h.Shape, arrayOpts...)
	}
	if err != nil {
		return nil, err
	}

	if err := ar.ReadInto(ctx, a); err != nil {
		return nil, errors.Join(err, a.Close())
	}
	if a.Mapped() {
		if err := a.Flush(); err != nil {
			return nil, errors.Join(err, a.Close())
		}
	}
	count = h.Count
	return a, nil
}
