// Package blobstore provides storage for array archives.
//
// [Store] is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - [LocalStore]: Local filesystem with mmap reads and atomic renames
//   - [MemoryStore]: In-memory, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// Archives are written with Create and read back sequentially:
//
//	w, _ := store.Create(ctx, "weights.bfa")
//	_ = archive.Export(ctx, w, a)
//	_ = w.Close()
//
//	blob, _ := store.Open(ctx, "weights.bfa")
//	r, _ := blobstore.NewReader(ctx, blob)
package blobstore
