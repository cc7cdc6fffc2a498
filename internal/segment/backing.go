package segment

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/bufarray/internal/fs"
)

// backing is a file shared by every segment mapped from it. The file is
// closed when the last reference is released.
type backing struct {
	file fs.File
	path string
	refs atomic.Int32

	mu   sync.Mutex
	size int64
}

func openBacking(fsys fs.FileSystem, path string, perm os.FileMode) (*backing, error) {
	if fsys == nil {
		fsys = fs.Default
	}
	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE, perm)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &IOError{Op: "stat", Path: path, Err: err}
	}
	b := &backing{file: f, path: path, size: info.Size()}
	b.refs.Store(1)
	return b, nil
}

// ensure grows the file to at least size bytes. Existing contents are kept.
func (b *backing) ensure(size int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if size <= b.size {
		return nil
	}
	if err := b.file.Truncate(size); err != nil {
		return &IOError{Op: "grow", Path: b.path, Offset: b.size, Length: size - b.size, Err: err}
	}
	b.size = size
	return nil
}

func (b *backing) retain() {
	b.refs.Add(1)
}

func (b *backing) release() error {
	if b.refs.Add(-1) != 0 {
		return nil
	}
	if err := b.file.Close(); err != nil {
		return &IOError{Op: "close", Path: b.path, Err: err}
	}
	return nil
}
