package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/arthur-debert/envboot/pkg/types"
)

// maxLinkHops bounds link chains, like ELOOP on a real filesystem
const maxLinkHops = 16

// aferoFS adapts an afero backend to types.FS. MemMapFs and other backends
// without symlink support get links emulated in memory, so artifact linking
// can be exercised against an in-memory tree.
type aferoFS struct {
	base afero.Fs

	mu    sync.RWMutex
	links map[string]string
}

// NewAferoFS wraps an afero filesystem
func NewAferoFS(base afero.Fs) types.FS {
	return &aferoFS{base: base, links: map[string]string{}}
}

func (a *aferoFS) link(name string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	target, ok := a.links[filepath.Clean(name)]
	return target, ok
}

// follow resolves emulated links in the last path element
func (a *aferoFS) follow(op, name string) (string, error) {
	name = filepath.Clean(name)
	for i := 0; i < maxLinkHops; i++ {
		target, ok := a.link(name)
		if !ok {
			return name, nil
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(name), target)
		}
		name = filepath.Clean(target)
	}
	return "", &fs.PathError{Op: op, Path: name, Err: errors.New("too many levels of symbolic links")}
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	resolved, err := a.follow("stat", name)
	if err != nil {
		return nil, err
	}
	return a.base.Stat(resolved)
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if target, ok := a.link(name); ok {
		return linkInfo{name: filepath.Base(name), target: target}, nil
	}
	if l, ok := a.base.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return a.base.Stat(name)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	resolved, err := a.follow("read", name)
	if err != nil {
		return nil, err
	}
	info, err := a.base.Stat(resolved)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.base, resolved)
}

func (a *aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	resolved, err := a.follow("write", name)
	if err != nil {
		return err
	}
	return afero.WriteFile(a.base, resolved, data, perm)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.base.MkdirAll(path, perm)
}

// emulatesLinks reports whether links are kept in memory for base. Only
// backends with no link support at all qualify; a backend that refuses
// links, like ReadOnlyFs, keeps refusing.
func emulatesLinks(base afero.Fs) bool {
	if _, ok := base.(*afero.MemMapFs); ok {
		return true
	}
	_, ok := base.(afero.Linker)
	return !ok
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	if !emulatesLinks(a.base) {
		err := a.base.(afero.Linker).SymlinkIfPossible(oldname, newname)
		if errors.Is(err, afero.ErrNoSymlink) {
			return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: syscall.EPERM}
		}
		return err
	}

	newname = filepath.Clean(newname)
	if _, err := a.base.Stat(filepath.Dir(newname)); err != nil {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrNotExist}
	}
	if _, err := a.Lstat(newname); err == nil {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrExist}
	}
	a.mu.Lock()
	a.links[newname] = oldname
	a.mu.Unlock()
	return nil
}

func (a *aferoFS) Readlink(name string) (string, error) {
	if target, ok := a.link(name); ok {
		return target, nil
	}
	if r, ok := a.base.(afero.LinkReader); ok {
		return r.ReadlinkIfPossible(name)
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
}

func (a *aferoFS) Remove(name string) error {
	name = filepath.Clean(name)
	a.mu.Lock()
	_, ok := a.links[name]
	delete(a.links, name)
	a.mu.Unlock()
	if ok {
		return nil
	}
	return a.base.Remove(name)
}

func (a *aferoFS) RemoveAll(path string) error {
	path = filepath.Clean(path)
	prefix := path + string(filepath.Separator)
	a.mu.Lock()
	for name := range a.links {
		if name == path || strings.HasPrefix(name, prefix) {
			delete(a.links, name)
		}
	}
	a.mu.Unlock()
	return a.base.RemoveAll(path)
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	oldpath, newpath = filepath.Clean(oldpath), filepath.Clean(newpath)
	a.mu.Lock()
	target, isLink := a.links[oldpath]
	delete(a.links, newpath)
	if isLink {
		delete(a.links, oldpath)
		a.links[newpath] = target
	}
	a.mu.Unlock()
	if isLink {
		_ = a.base.Remove(newpath)
		return nil
	}
	return a.base.Rename(oldpath, newpath)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(a.base, name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}

	dir := filepath.Clean(name)
	a.mu.RLock()
	for path, target := range a.links {
		if filepath.Dir(path) == dir {
			entries = append(entries, fs.FileInfoToDirEntry(linkInfo{name: filepath.Base(path), target: target}))
		}
	}
	a.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// linkInfo describes an emulated symlink to Lstat and ReadDir callers
type linkInfo struct {
	name   string
	target string
}

func (l linkInfo) Name() string       { return l.name }
func (l linkInfo) Size() int64        { return int64(len(l.target)) }
func (l linkInfo) Mode() fs.FileMode  { return fs.ModeSymlink | 0o777 }
func (l linkInfo) ModTime() time.Time { return time.Time{} }
func (l linkInfo) IsDir() bool        { return false }
func (l linkInfo) Sys() any           { return nil }
