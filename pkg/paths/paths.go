// Package paths provides centralized path handling for envboot.
// It implements XDG Base Directory specification compliance and
// resolves every location the orchestrator reads or writes.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/envboot/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the orchestrator root data directory
	EnvDataDir = "ENVBOOT_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for envboot
	EnvConfigDir = "ENVBOOT_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for envboot
	EnvCacheDir = "ENVBOOT_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names inside the envboot directories. User-configurable names
// (the ledger file, artifact names) live in pkg/config.
const (
	// DirName is the directory name used under every XDG base
	DirName = "envboot"

	// LedgerFileName is the default completion ledger file name
	LedgerFileName = ".install.log"

	// ScratchDirName is the cache subdirectory for materialized repositories
	ScratchDirName = "scratch"

	// LogFileName is the name of the log file
	LogFileName = "envboot.log"
)

// Paths resolves envboot's directories
type Paths interface {
	DataDir() string
	ConfigDir() string
	CacheDir() string
	StateDir() string
	LedgerPath(fileName string) string
	ArtifactPath(name string) string
	ScratchDir() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

type paths struct {
	dataDir   string
	configDir string
	cacheDir  string
	stateDir  string
}

// New resolves the envboot directories from the environment.
func New() (Paths, error) {
	p := &paths{}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		p.dataDir = expandHome(dir)
	} else {
		p.dataDir = filepath.Join(xdg.DataHome, DirName)
	}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, DirName)
	}

	if dir := os.Getenv(EnvCacheDir); dir != "" {
		p.cacheDir = expandHome(dir)
	} else {
		p.cacheDir = filepath.Join(xdg.CacheHome, DirName)
	}

	// XDG_STATE_HOME is read directly so it matches the logger's location
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		p.stateDir = filepath.Join(dir, DirName)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to resolve home directory")
		}
		p.stateDir = filepath.Join(home, ".local", "state", DirName)
	}

	for _, dir := range []*string{&p.dataDir, &p.configDir, &p.cacheDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", *dir)
		}
		*dir = abs
	}

	return p, nil
}

// DataDir is the orchestrator root data directory (ledger, linked artifacts)
func (p *paths) DataDir() string {
	return p.dataDir
}

// ConfigDir returns the XDG config directory for envboot
func (p *paths) ConfigDir() string {
	return p.configDir
}

// CacheDir returns the XDG cache directory for envboot
func (p *paths) CacheDir() string {
	return p.cacheDir
}

// StateDir returns the XDG state directory for envboot
func (p *paths) StateDir() string {
	return p.stateDir
}

// LedgerPath returns the ledger location; an empty name means LedgerFileName
func (p *paths) LedgerPath(fileName string) string {
	if fileName == "" {
		fileName = LedgerFileName
	}
	return filepath.Join(p.dataDir, fileName)
}

// ArtifactPath returns where a named artifact lives in the data directory
func (p *paths) ArtifactPath(name string) string {
	return filepath.Join(p.dataDir, name)
}

// ScratchDir holds temporary repository copies
func (p *paths) ScratchDir() string {
	return filepath.Join(p.cacheDir, ScratchDirName)
}

// LogFilePath returns the path to the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// NormalizePath expands home, makes the path absolute and cleans it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}
	return filepath.Clean(abs), nil
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not expanded
	return path
}
