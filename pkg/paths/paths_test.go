package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EnvironmentOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvDataDir, filepath.Join(tmp, "data"))
	t.Setenv(EnvConfigDir, filepath.Join(tmp, "config"))
	t.Setenv(EnvCacheDir, filepath.Join(tmp, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))

	p, err := New()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmp, "data"), p.DataDir())
	assert.Equal(t, filepath.Join(tmp, "config"), p.ConfigDir())
	assert.Equal(t, filepath.Join(tmp, "cache"), p.CacheDir())
	assert.Equal(t, filepath.Join(tmp, "state", "envboot"), p.StateDir())
	assert.Equal(t, filepath.Join(tmp, "state", "envboot", "envboot.log"), p.LogFilePath())
	assert.Equal(t, filepath.Join(tmp, "cache", "scratch"), p.ScratchDir())
}

func TestLedgerAndArtifactPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvDataDir, tmp)

	p, err := New()
	require.NoError(t, err)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"default ledger", p.LedgerPath(""), filepath.Join(tmp, ".install.log")},
		{"custom ledger", p.LedgerPath("done.log"), filepath.Join(tmp, "done.log")},
		{"config artifact", p.ArtifactPath("config.json"), filepath.Join(tmp, "config.json")},
		{"credentials artifact", p.ArtifactPath("credentials.json"), filepath.Join(tmp, "credentials.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/eos", filepath.Join(home, "eos")},
		{"~other/eos", "~other/eos"},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())
	p, err := New()
	require.NoError(t, err)

	_, err = p.NormalizePath("")
	assert.Error(t, err)

	got, err := p.NormalizePath("/a/b/../c/")
	require.NoError(t, err)
	assert.Equal(t, "/a/c", got)
}
