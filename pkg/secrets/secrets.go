// Package secrets fetches the secrets document and turns it into the
// credentials artifact.
package secrets

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/remote"
	"github.com/arthur-debert/envboot/pkg/types"
	"gopkg.in/yaml.v3"
)

// Store provides credentials from a secrets source
type Store interface {
	// FetchFromRemote downloads the secrets document into the local cache
	FetchFromRemote(ctx context.Context) error
	// MaterializeAsCredentials writes the credentials document to dst.
	// It returns false when there is nothing fetched to write.
	MaterializeAsCredentials(dst string) (bool, error)
}

// Options configures a RemoteStore
type Options struct {
	Source   remote.Source
	FS       types.FS
	Org      string
	Repo     string
	File     string
	CacheDir string
}

// RemoteStore fetches a YAML secrets document from a remote.Source
type RemoteStore struct {
	source    remote.Source
	fs        types.FS
	org       string
	repo      string
	file      string
	cachePath string
}

// NewRemoteStore creates a RemoteStore caching into opts.CacheDir
func NewRemoteStore(opts Options) *RemoteStore {
	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	return &RemoteStore{
		source:    opts.Source,
		fs:        fs,
		org:       opts.Org,
		repo:      opts.Repo,
		file:      opts.File,
		cachePath: filepath.Join(opts.CacheDir, "secrets", filepath.Base(opts.File)),
	}
}

// CachePath is where the fetched document is kept
func (s *RemoteStore) CachePath() string {
	return s.cachePath
}

func (s *RemoteStore) FetchFromRemote(ctx context.Context) error {
	if err := s.source.FetchFile(ctx, s.org, s.repo, s.file, s.cachePath); err != nil {
		return err
	}
	logger := logging.GetLogger("secrets")
	logger.Debug().Str("path", s.cachePath).Msg("Secrets document cached")
	return nil
}

func (s *RemoteStore) MaterializeAsCredentials(dst string) (bool, error) {
	data, err := s.fs.ReadFile(s.cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to read cached secrets %s", s.cachePath)
	}

	doc := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false, errors.Wrap(err, errors.ErrInvalidInput, "secrets document is not valid YAML")
	}
	if len(doc) == 0 {
		return false, nil
	}

	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return false, errors.Wrap(err, errors.ErrInvalidInput, "secrets document cannot be written as JSON")
	}
	out = append(out, '\n')

	if err := filesystem.WriteFileAtomic(s.fs, dst, out, 0600); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to write credentials to %s", dst)
	}
	logger := logging.GetLogger("secrets")
	logger.Info().Str("path", dst).Int("keys", len(doc)).Msg("Credentials written")
	return true, nil
}
