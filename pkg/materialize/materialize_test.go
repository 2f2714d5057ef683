package materialize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/materialize"
	"github.com/arthur-debert/envboot/pkg/testutil"
)

type staticDev struct {
	path string
	ok   bool
}

func (s staticDev) Get() (string, bool) { return s.path, s.ok }

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	testutil.CreateFile(t, src, "setup.py", "setup()")
	testutil.CreateFile(t, src, "pkg/mod.py", "x = 1")
	testutil.CreateFile(t, src, ".gitignore", "*.pyc\nbuild/\n")
	testutil.CreateFile(t, src, "pkg/mod.pyc", "binary")
	testutil.CreateFile(t, src, "build/out.txt", "ignored")
	testutil.CreateFile(t, src, ".git/HEAD", "ref: refs/heads/master")
	require.NoError(t, os.Symlink("setup.py", filepath.Join(src, "link.py")))

	dst := filepath.Join(t.TempDir(), "ersilia")
	require.NoError(t, materialize.CopyTree(filesystem.NewOS(), src, dst))

	testutil.AssertFileContent(t, filepath.Join(dst, "setup.py"), "setup()")
	testutil.AssertFileContent(t, filepath.Join(dst, "pkg/mod.py"), "x = 1")
	testutil.AssertFileContent(t, filepath.Join(dst, ".gitignore"), "*.pyc\nbuild/\n")
	testutil.AssertSymlink(t, filepath.Join(dst, "link.py"), "setup.py")
	testutil.AssertNoFile(t, filepath.Join(dst, "pkg/mod.pyc"))
	testutil.AssertNoFile(t, filepath.Join(dst, "build"))
	testutil.AssertNoFile(t, filepath.Join(dst, ".git"))
}

func TestCopyTree_PreservesMode(t *testing.T) {
	src := t.TempDir()
	path := testutil.CreateFile(t, src, "run.sh", "#!/bin/sh\n")
	require.NoError(t, os.Chmod(path, 0755))

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, materialize.CopyTree(filesystem.NewOS(), src, dst))

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCopyTree_MissingSource(t *testing.T) {
	err := materialize.CopyTree(filesystem.NewOS(), filepath.Join(t.TempDir(), "nope"), t.TempDir())
	assert.Error(t, err)
}

func TestMaterialize_FromDevelopmentCheckout(t *testing.T) {
	dev := t.TempDir()
	testutil.CreateFile(t, dev, "setup.py", "setup()")
	remote := &testutil.MockRemoteSource{}

	m := materialize.New(materialize.Options{
		FS:      filesystem.NewOS(),
		DevPath: staticDev{path: dev, ok: true},
		Remote:  remote,
		Org:     "ersilia-os",
		Package: "ersilia",
	})

	scratch := t.TempDir()
	repo, err := m.Materialize(context.Background(), scratch)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scratch, "ersilia"), repo)
	testutil.AssertFileContent(t, filepath.Join(repo, "setup.py"), "setup()")
	remote.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMaterialize_Clone(t *testing.T) {
	scratch := t.TempDir()
	remote := &testutil.MockRemoteSource{}
	remote.On("Clone", mock.Anything, "ersilia-os", "ersilia", filepath.Join(scratch, "ersilia")).Return(nil).Once()

	m := materialize.New(materialize.Options{
		FS:      filesystem.NewOS(),
		DevPath: staticDev{},
		Remote:  remote,
		Org:     "ersilia-os",
		Package: "ersilia",
	})

	repo, err := m.Materialize(context.Background(), scratch)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scratch, "ersilia"), repo)
	remote.AssertExpectations(t)
}

func TestMaterialize_CloneFailure(t *testing.T) {
	remote := &testutil.MockRemoteSource{}
	remote.On("Clone", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	m := materialize.New(materialize.Options{FS: filesystem.NewOS(), DevPath: staticDev{}, Remote: remote, Package: "ersilia"})
	_, err := m.Materialize(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewScratchDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "scratch")

	a, err := materialize.NewScratchDir(base)
	require.NoError(t, err)
	b, err := materialize.NewScratchDir(base)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, base, filepath.Dir(a))
	assert.DirExists(t, a)
}
