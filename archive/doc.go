// Package archive writes arrays to a portable, block-compressed stream and
// reads them back.
//
// An archive starts with a fixed header followed by the dimension extents
// and a CRC32C of the header bytes. Elements follow in index order as
// little-endian IEEE-754 doubles, grouped into blocks:
//
//	[raw length u32][stored length u32][crc32c of raw u32][payload]
//
// A stored length of zero means the payload is uncompressed. Blocks that do
// not shrink by at least a tenth are stored raw.
//
// Archives are independent of the in-memory segmentation and of the host
// byte order, so an array exported from a heap segment can be restored into
// a file-backed array on another machine:
//
//	stats, err := archive.Save(ctx, store, "weights.bfa", a, archive.WithCompression(archive.CompressionZSTD))
//	b, err := archive.Restore(ctx, store, "weights.bfa", "/data/weights.bin")
package archive
