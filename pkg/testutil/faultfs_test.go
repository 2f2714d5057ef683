package testutil_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/envboot/pkg/testutil"
)

func TestFaultFS_PassThrough(t *testing.T) {
	f := testutil.NewFaultFS(testutil.NewMemFS())
	require.NoError(t, f.MkdirAll("/eos", 0755))
	require.NoError(t, f.WriteFile("/eos/config.json", []byte("{}"), 0644))

	content, err := f.ReadFile("/eos/config.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))

	entries, err := f.ReadDir("/eos")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFaultFS_InjectedErrors(t *testing.T) {
	denied := &fs.PathError{Op: "open", Path: "/eos/locked.json", Err: fs.ErrPermission}
	f := testutil.NewFaultFS(testutil.NewMemFS()).Fail("/eos/locked.json", denied)
	require.NoError(t, f.MkdirAll("/eos", 0755))

	_, err := f.Stat("/eos/locked.json")
	assert.ErrorIs(t, err, fs.ErrPermission)
	_, err = f.Lstat("/eos/locked.json")
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.ErrorIs(t, f.WriteFile("/eos/locked.json", nil, 0644), fs.ErrPermission)
	assert.ErrorIs(t, f.Symlink("/x", "/eos/locked.json"), fs.ErrPermission)
	assert.ErrorIs(t, f.Rename("/eos/a", "/eos/locked.json"), fs.ErrPermission)

	f.Heal("/eos/locked.json")
	assert.NoError(t, f.WriteFile("/eos/locked.json", nil, 0644))
}

func TestNewMemFS_Symlinks(t *testing.T) {
	m := testutil.NewMemFS()
	require.NoError(t, m.MkdirAll("/eos", 0755))
	require.NoError(t, m.Symlink("/dev/gone.json", "/eos/credentials.json"))

	target, err := m.Readlink("/eos/credentials.json")
	require.NoError(t, err)
	assert.Equal(t, "/dev/gone.json", target)
}
