package secrets_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/secrets"
	"github.com/arthur-debert/envboot/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var _ secrets.Store = (*secrets.RemoteStore)(nil)

const secretsYAML = `
github:
  token: ghp_example
aws:
  key_id: AKIA
  region: eu-west-1
`

func newStore(t *testing.T, src *testutil.MockRemoteSource) *secrets.RemoteStore {
	t.Helper()
	return secrets.NewRemoteStore(secrets.Options{
		Source:   src,
		Org:      "ersilia-os",
		Repo:     "ersilia-secrets",
		File:     "secrets.yaml",
		CacheDir: t.TempDir(),
	})
}

func TestFetchAndMaterialize(t *testing.T) {
	src := &testutil.MockRemoteSource{}
	store := newStore(t, src)
	src.On("FetchFile", mock.Anything, "ersilia-os", "ersilia-secrets", "secrets.yaml", store.CachePath()).
		Run(func(args mock.Arguments) {
			dst := args.String(4)
			require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
			require.NoError(t, os.WriteFile(dst, []byte(secretsYAML), 0644))
		}).
		Return(nil).Once()

	require.NoError(t, store.FetchFromRemote(context.Background()))

	dst := filepath.Join(t.TempDir(), "eos", "credentials.json")
	done, err := store.MaterializeAsCredentials(dst)
	require.NoError(t, err)
	assert.True(t, done)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	var creds map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &creds))
	assert.Equal(t, "ghp_example", creds["github"]["token"])
	assert.Equal(t, "eu-west-1", creds["aws"]["region"])

	src.AssertExpectations(t)
}

func TestMaterialize_NothingFetched(t *testing.T) {
	store := newStore(t, &testutil.MockRemoteSource{})

	dst := filepath.Join(t.TempDir(), "credentials.json")
	done, err := store.MaterializeAsCredentials(dst)
	require.NoError(t, err)
	assert.False(t, done)
	testutil.AssertNoFile(t, dst)
}

func TestMaterialize_InvalidYAML(t *testing.T) {
	store := newStore(t, &testutil.MockRemoteSource{})
	testutil.CreateFile(t, filepath.Dir(store.CachePath()), "secrets.yaml", "key: [unterminated")

	_, err := store.MaterializeAsCredentials(filepath.Join(t.TempDir(), "credentials.json"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFetch_Failure(t *testing.T) {
	src := &testutil.MockRemoteSource{}
	store := newStore(t, src)
	src.On("FetchFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New(errors.ErrArtifactUnavailable, "404"))

	err := store.FetchFromRemote(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrArtifactUnavailable))
}
