package types

import (
	"io/fs"
)

// FS is the slice of the filesystem that the ledger, the artifact resolver
// and the probes touch. Paths are absolute host paths.
//
// Lstat must report a symlink itself, dangling or not; Stat follows it.
// Artifact presence depends on the difference.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)

	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error

	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
}
