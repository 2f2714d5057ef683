// Package materialize produces a private copy of the orchestrated package's
// source tree in a scratch directory, from the development checkout when
// one is present and by cloning the remote otherwise.
package materialize

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/remote"
	"github.com/arthur-debert/envboot/pkg/types"
)

// DevPath reports a development checkout
type DevPath interface {
	Get() (string, bool)
}

// Options configures a Materializer
type Options struct {
	FS      types.FS
	DevPath DevPath
	Remote  remote.Source
	Org     string
	Package string
}

// Materializer copies or clones the package source
type Materializer struct {
	fs      types.FS
	devPath DevPath
	remote  remote.Source
	org     string
	pkg     string
}

// New creates a Materializer
func New(opts Options) *Materializer {
	return &Materializer{
		fs:      opts.FS,
		devPath: opts.DevPath,
		remote:  opts.Remote,
		org:     opts.Org,
		pkg:     opts.Package,
	}
}

// NewScratchDir creates a fresh directory under base. Scratch directories
// are left in place after the run.
func NewScratchDir(base string) (string, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", base)
	}
	dir, err := os.MkdirTemp(base, "run-")
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create scratch directory in %s", base)
	}
	return dir, nil
}

// Materialize places the package source at <scratchDir>/<package> and
// returns that path
func (m *Materializer) Materialize(ctx context.Context, scratchDir string) (string, error) {
	repoPath := filepath.Join(scratchDir, m.pkg)
	logger := logging.GetLogger("materialize")

	if dev, ok := m.devPath.Get(); ok {
		logger.Info().Str("from", dev).Str("to", repoPath).Msg("Copying development checkout")
		if err := CopyTree(m.fs, dev, repoPath); err != nil {
			return "", err
		}
		return repoPath, nil
	}

	if m.remote == nil {
		return "", errors.New(errors.ErrArtifactUnavailable, "no development checkout and no remote source configured")
	}
	logger.Info().Str("org", m.org).Str("repo", m.pkg).Str("to", repoPath).Msg("Cloning package repository")
	if err := m.remote.Clone(ctx, m.org, m.pkg, repoPath); err != nil {
		return "", err
	}
	return repoPath, nil
}

// CopyTree copies src into dst recursively. Paths matched by src/.gitignore
// are skipped, as is any .git directory. Symlinks are recreated, not
// followed.
func CopyTree(fsys types.FS, src, dst string) error {
	rules := loadIgnore(fsys, src)

	var walk func(rel string) error
	walk = func(rel string) error {
		from := filepath.Join(src, rel)
		to := filepath.Join(dst, rel)

		info, err := fsys.Lstat(from)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", from)
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := fsys.Readlink(from)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", from)
			}
			if err := fsys.Symlink(target, to); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create link %s", to)
			}
			return nil

		case info.IsDir():
			if err := fsys.MkdirAll(to, info.Mode().Perm()|0700); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", to)
			}
			entries, err := fsys.ReadDir(from)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", from)
			}
			for _, e := range entries {
				child := filepath.Join(rel, e.Name())
				if skip(rules, child, e.IsDir()) {
					continue
				}
				if err := walk(child); err != nil {
					return err
				}
			}
			return nil

		default:
			data, err := fsys.ReadFile(from)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", from)
			}
			if err := fsys.WriteFile(to, data, info.Mode().Perm()); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", to)
			}
			return nil
		}
	}

	return walk("")
}

func skip(rules *ignore.GitIgnore, rel string, isDir bool) bool {
	if filepath.Base(rel) == ".git" {
		return true
	}
	if rules == nil {
		return false
	}
	slashed := filepath.ToSlash(rel)
	if isDir && rules.MatchesPath(slashed+"/") {
		return true
	}
	return rules.MatchesPath(slashed)
}

func loadIgnore(fsys types.FS, root string) *ignore.GitIgnore {
	data, err := fsys.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	return ignore.CompileIgnoreLines(lines...)
}
