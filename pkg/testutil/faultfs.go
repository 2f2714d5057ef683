package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/types"
)

// NewMemFS returns an empty in-memory filesystem with emulated symlinks
func NewMemFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// FaultFS wraps a filesystem and fails any operation on a registered path.
// It stands in for permission problems and broken mounts.
type FaultFS struct {
	types.FS

	mu     sync.RWMutex
	faults map[string]error
}

// NewFaultFS wraps base. Without faults it behaves exactly like base.
func NewFaultFS(base types.FS) *FaultFS {
	return &FaultFS{FS: base, faults: map[string]error{}}
}

// Fail makes every later operation on path return err
func (f *FaultFS) Fail(path string, err error) *FaultFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[filepath.Clean(path)] = err
	return f
}

// Heal removes the fault registered for path
func (f *FaultFS) Heal(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.faults, filepath.Clean(path))
}

func (f *FaultFS) fault(paths ...string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range paths {
		if err, ok := f.faults[filepath.Clean(p)]; ok {
			return err
		}
	}
	return nil
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.fault(name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.fault(name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultFS) ReadFile(name string) ([]byte, error) {
	if err := f.fault(name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.fault(name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.fault(path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.fault(newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultFS) Readlink(name string) (string, error) {
	if err := f.fault(name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.fault(name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultFS) RemoveAll(path string) error {
	if err := f.fault(path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if err := f.fault(oldpath, newpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.fault(name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}
