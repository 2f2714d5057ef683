package filesystem

import (
	"io/fs"
	"path/filepath"
	"strconv"
	"time"

	"github.com/arthur-debert/envboot/pkg/types"
)

// AtomicWriter is implemented by filesystems that can replace a file
// durably on their own (temp file, fsync, rename, directory fsync).
type AtomicWriter interface {
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error
}

// WriteFileAtomic replaces name with data so readers observe either the old
// or the new content, never a partial write. Parent directories are created.
func WriteFileAtomic(fsys types.FS, name string, data []byte, perm fs.FileMode) error {
	if aw, ok := fsys.(AtomicWriter); ok {
		return aw.WriteFileAtomic(name, data, perm)
	}

	dir := filepath.Dir(name)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(name)+".tmp."+strconv.FormatInt(time.Now().UnixNano(), 36))
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	if err := fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}
