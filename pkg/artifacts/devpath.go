package artifacts

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/types"
)

// EnvDevelopmentPath names a development checkout explicitly
const EnvDevelopmentPath = "ENVBOOT_DEVELOPMENT_PATH"

// DevelopmentPath detects a local checkout of the orchestrated package once
// and caches the answer
type DevelopmentPath struct {
	fs         types.FS
	markers    []string
	candidates []string

	once  sync.Once
	path  string
	found bool
}

// NewDevelopmentPath checks candidates in order for a directory holding
// every marker file
func NewDevelopmentPath(fs types.FS, markers []string, candidates []string) *DevelopmentPath {
	return &DevelopmentPath{fs: fs, markers: markers, candidates: candidates}
}

// Get returns the detected checkout, if any
func (d *DevelopmentPath) Get() (string, bool) {
	if d == nil {
		return "", false
	}
	d.once.Do(func() {
		d.path, d.found = DetectDevelopmentPath(d.fs, d.markers, d.candidates)
		logger := logging.GetLogger("artifacts")
		if d.found {
			logger.Debug().Str("path", d.path).Msg("Development checkout detected")
		} else {
			logger.Debug().Strs("candidates", d.candidates).Msg("No development checkout")
		}
	})
	return d.path, d.found
}

// DetectDevelopmentPath returns the first candidate containing all markers.
// A candidate missing any marker is skipped entirely.
func DetectDevelopmentPath(fs types.FS, markers []string, candidates []string) (string, bool) {
	if len(markers) == 0 {
		return "", false
	}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if hasAll(fs, dir, markers) {
			return dir, true
		}
	}
	return "", false
}

func hasAll(fs types.FS, dir string, markers []string) bool {
	for _, m := range markers {
		info, err := fs.Stat(filepath.Join(dir, m))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// DefaultCandidates lists where a checkout is looked for: the configured
// path, $ENVBOOT_DEVELOPMENT_PATH, the working directory, and the directory
// two levels above the running executable
func DefaultCandidates(configured string) []string {
	var out []string
	add := func(p string) {
		if p == "" {
			return
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		for _, seen := range out {
			if seen == p {
				return
			}
		}
		out = append(out, p)
	}

	add(configured)
	add(os.Getenv(EnvDevelopmentPath))
	if cwd, err := os.Getwd(); err == nil {
		add(cwd)
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		add(filepath.Dir(filepath.Dir(exe)))
	}
	return out
}
