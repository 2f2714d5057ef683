package probe

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os/exec"
	"testing"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/testutil"
	"github.com/arthur-debert/envboot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stubLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := lookPath
	lookPath = fn
	t.Cleanup(func() { lookPath = orig })
}

func TestPathLookup(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    types.Presence
		wantErr bool
	}{
		{"found", nil, types.PresencePresent, false},
		{"not found", &exec.Error{Name: "conda", Err: exec.ErrNotFound}, types.PresenceAbsent, false},
		{"permission denied", &fs.PathError{Op: "stat", Path: "/usr/bin/conda", Err: fs.ErrPermission}, types.PresenceAbsent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubLookPath(t, func(string) (string, error) { return "/usr/bin/conda", tt.err })

			got, err := PathLookup{Tool: "conda"}.Check(context.Background())
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrProbe))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToolOnPath_RealLookup(t *testing.T) {
	ok, err := ToolOnPath(context.Background(), "sh")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ToolOnPath(context.Background(), "envboot-no-such-tool")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImportProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("importable", func(t *testing.T) {
		x := testutil.NewFakeExecutor()
		ok, err := PackageImportable(ctx, x, "python", "rdkit")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"python -c import rdkit"}, x.Lines())
	})

	t.Run("module not found is absent", func(t *testing.T) {
		x := testutil.NewFakeExecutor().Fail("python", 1, "ModuleNotFoundError: No module named 'rdkit'")
		ok, err := PackageImportable(ctx, x, "python", "rdkit")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other import failure is an error", func(t *testing.T) {
		x := testutil.NewFakeExecutor().Fail("python", 1, "ImportError: libXrender.so.1: cannot open shared object file")
		_, err := PackageImportable(ctx, x, "python", "rdkit")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrProbe))
	})

	t.Run("missing interpreter is an error", func(t *testing.T) {
		x := testutil.NewFakeExecutor().Missing("python")
		_, err := PackageImportable(ctx, x, "python", "rdkit")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrProbe))
	})
}

func TestEnvironmentQuery(t *testing.T) {
	ctx := context.Background()
	m := &testutil.MockCondaManager{}
	m.On("Exists", mock.Anything, "eos-bentoml-0.11.0-py37").Return(true, nil)
	m.On("Exists", mock.Anything, "missing").Return(false, nil)
	m.On("Exists", mock.Anything, "broken").Return(false, stderrors.New("conda crashed"))

	ok, err := EnvironmentExists(ctx, m, "eos-bentoml-0.11.0-py37")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EnvironmentExists(ctx, m, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = EnvironmentExists(ctx, m, "broken")
	assert.True(t, errors.IsErrorCode(err, errors.ErrProbe))
}

func TestImageQuery(t *testing.T) {
	ctx := context.Background()
	e := &testutil.MockDockerEngine{}
	e.On("Exists", mock.Anything, "ersiliaos", "server", "0.11.0-py37").Return(true, nil)

	p := ImageQuery{Engine: e, Org: "ersiliaos", Image: "server", Tag: "0.11.0-py37"}
	got, err := p.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.PresencePresent, got)
	assert.Equal(t, "image:ersiliaos/server:0.11.0-py37", p.Name())
}

func TestFileExists(t *testing.T) {
	ctx := context.Background()
	m := testutil.NewFaultFS(testutil.NewMemFS())
	require.NoError(t, m.MkdirAll("/eos", 0755))
	require.NoError(t, m.WriteFile("/eos/config.json", []byte("{}"), 0644))
	require.NoError(t, m.Symlink("/dev/gone.json", "/eos/credentials.json"))
	m.Fail("/eos/locked.json", &fs.PathError{Op: "lstat", Path: "/eos/locked.json", Err: fs.ErrPermission})

	tests := []struct {
		path    string
		want    types.Presence
		wantErr bool
	}{
		{"/eos/config.json", types.PresencePresent, false},
		{"/eos/credentials.json", types.PresencePresent, false},
		{"/eos/other.json", types.PresenceAbsent, false},
		{"/eos/locked.json", types.PresenceAbsent, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FileExists{FS: m, Path: tt.path}.Check(ctx)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNever(t *testing.T) {
	got, err := Never.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.PresenceAbsent, got)
	assert.Equal(t, "never=absent", Describe(Never, got))
}
