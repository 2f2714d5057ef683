package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("hello world")

	require.NoError(t, fs.WriteFile(testFile, testContent, 0644))

	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())
	assert.Equal(t, int64(len(testContent)), info.Size())

	content, err := fs.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	require.NoError(t, fs.MkdirAll(filepath.Join(tmpDir, "sub", "dir"), 0755))

	entries, err := fs.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // test.txt and sub/

	require.NoError(t, fs.Remove(testFile))
	_, err = fs.Stat(testFile)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileAtomic_OS(t *testing.T) {
	fs := NewOS()
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", ".install.log")

	require.NoError(t, WriteFileAtomic(fs, target, []byte("conda\n"), 0644))
	require.NoError(t, WriteFileAtomic(fs, target, []byte("conda\ngit\n"), 0644))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "conda\ngit\n", string(content))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_Afero(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := NewAferoFS(mem)
	target := "/data/envboot/.install.log"

	require.NoError(t, WriteFileAtomic(fs, target, []byte("rdkit\n"), 0644))

	content, err := fs.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "rdkit\n", string(content))

	entries, err := fs.ReadDir("/data/envboot")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAferoFS_ReadFileOnDirectory(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/repo", 0755))

	_, err := fs.ReadFile("/repo")
	assert.Error(t, err)
}

func TestAferoFS_SymlinkRoundTrip(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/data", 0755))

	require.NoError(t, fs.Symlink("/src/ersilia/config.json", "/data/config.json"))
	target, err := fs.Readlink("/data/config.json")
	require.NoError(t, err)
	assert.Equal(t, "/src/ersilia/config.json", target)
}

func TestAferoFS_EmulatedLinks(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/src/ersilia", 0755))
	require.NoError(t, fs.MkdirAll("/data", 0755))
	require.NoError(t, fs.WriteFile("/src/ersilia/config.json", []byte(`{"a":1}`), 0644))
	require.NoError(t, fs.Symlink("/src/ersilia/config.json", "/data/config.json"))

	info, err := fs.Lstat("/data/config.json")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	info, err = fs.Stat("/data/config.json")
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&os.ModeSymlink)

	content, err := fs.ReadFile("/data/config.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(content))

	t.Run("existing name", func(t *testing.T) {
		err := fs.Symlink("/elsewhere", "/data/config.json")
		assert.ErrorIs(t, err, os.ErrExist)
	})

	t.Run("missing parent", func(t *testing.T) {
		err := fs.Symlink("/src/ersilia/config.json", "/nowhere/config.json")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestAferoFS_DanglingLink(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/data", 0755))
	require.NoError(t, fs.Symlink("/gone/credentials.json", "/data/credentials.json"))

	_, err := fs.Lstat("/data/credentials.json")
	assert.NoError(t, err)

	_, err = fs.Stat("/data/credentials.json")
	assert.True(t, os.IsNotExist(err))
}

func TestAferoFS_RelativeLinkTarget(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/data/sub", 0755))
	require.NoError(t, fs.WriteFile("/data/real.txt", []byte("x"), 0644))
	require.NoError(t, fs.Symlink("../real.txt", "/data/sub/link.txt"))

	content, err := fs.ReadFile("/data/sub/link.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(content))
}

func TestAferoFS_ReadDirListsLinks(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/data", 0755))
	require.NoError(t, fs.WriteFile("/data/b.txt", []byte("b"), 0644))
	require.NoError(t, fs.Symlink("/src/c.json", "/data/c.json"))
	require.NoError(t, fs.Symlink("/src/a.json", "/data/a.json"))

	entries, err := fs.ReadDir("/data")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.json", "b.txt", "c.json"}, names)
	assert.NotZero(t, entries[0].Type()&os.ModeSymlink)
}

func TestAferoFS_RemoveAndRenameLinks(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/data/nested", 0755))
	require.NoError(t, fs.Symlink("/src/config.json", "/data/config.json"))
	require.NoError(t, fs.Symlink("/src/x", "/data/nested/x"))

	require.NoError(t, fs.Rename("/data/config.json", "/data/renamed.json"))
	_, err := fs.Lstat("/data/config.json")
	assert.True(t, os.IsNotExist(err))
	target, err := fs.Readlink("/data/renamed.json")
	require.NoError(t, err)
	assert.Equal(t, "/src/config.json", target)

	require.NoError(t, fs.Remove("/data/renamed.json"))
	_, err = fs.Readlink("/data/renamed.json")
	assert.Error(t, err)

	require.NoError(t, fs.RemoveAll("/data"))
	_, err = fs.Lstat("/data/nested/x")
	assert.True(t, os.IsNotExist(err))
}

func TestAferoFS_ReadOnlyRefusesLinks(t *testing.T) {
	fs := NewAferoFS(afero.NewReadOnlyFs(afero.NewMemMapFs()))
	err := fs.Symlink("/src/config.json", "/config.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)

	_, err = fs.Lstat("/config.json")
	assert.True(t, os.IsNotExist(err), "refused link must not appear")
	_, err = fs.Readlink("/config.json")
	assert.Error(t, err)
}

func TestNewOS_NativeSymlinks(t *testing.T) {
	fs := NewOS()
	dir := t.TempDir()
	link := filepath.Join(dir, "credentials.json")

	require.NoError(t, fs.Symlink(filepath.Join(dir, "missing.json"), link))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "expected a real symlink on disk")

	_, err = fs.Lstat(link)
	assert.NoError(t, err)
	_, err = fs.Stat(link)
	assert.True(t, os.IsNotExist(err))

	target, err := fs.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "missing.json"), target)
}
