// Package fs abstracts the file operations behind file-backed segments and
// the local blob store so tests can inject failures.
//
// [LocalFS] forwards to package os and is the [Default]. [FaultyFS] wraps
// another FileSystem and fails opens, writes, truncations, syncs or closes
// for files whose name contains a configured pattern:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("data.bin", fs.Fault{FailTruncateAbove: 4096, FailAfterBytes: -1})
//
// Growing data.bin past 4 KiB now returns [ErrInjected]. Operations take no
// context; they map to single syscalls.
package fs
