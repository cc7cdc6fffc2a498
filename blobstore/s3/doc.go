// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("arrays/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = archive.Save(ctx, store, "weights.bfa", a)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart streaming uploads for large archives
//   - CRC32C integrity checks on upload
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
