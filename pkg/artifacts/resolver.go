// Package artifacts makes configuration artifacts exist at their fixed
// destination, linking them from a development checkout when one is present
// and fetching them from the remote source host otherwise.
package artifacts

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/remote"
	"github.com/arthur-debert/envboot/pkg/secrets"
	"github.com/arthur-debert/envboot/pkg/types"
)

// Origin says how an artifact came to exist at its destination
type Origin int

const (
	OriginExisting Origin = iota
	OriginDevelopmentLink
	OriginRemote
	OriginSecretDevelopment
	OriginSecretDirect
)

func (o Origin) String() string {
	switch o {
	case OriginExisting:
		return "existing"
	case OriginDevelopmentLink:
		return "development-link"
	case OriginRemote:
		return "remote"
	case OriginSecretDevelopment:
		return "secret-development"
	case OriginSecretDirect:
		return "secret-direct"
	default:
		return "unknown"
	}
}

// Artifact is a named file that must exist at Destination
type Artifact struct {
	Name        string
	Destination string
	Secret      bool
}

// Resolved describes a resolved artifact
type Resolved struct {
	Name        string
	Destination string
	// Source is the development file linked to, when there is one
	Source string
	Origin Origin
}

// Options configures a Resolver
type Options struct {
	FS      types.FS
	DevPath *DevelopmentPath
	Remote  remote.Source
	Secrets secrets.Store
	// Org and Repo address plain artifacts on the remote
	Org  string
	Repo string
}

// Resolver resolves artifacts
type Resolver struct {
	fs      types.FS
	devPath *DevelopmentPath
	remote  remote.Source
	secrets secrets.Store
	org     string
	repo    string
}

// NewResolver creates a Resolver
func NewResolver(opts Options) *Resolver {
	return &Resolver{
		fs:      opts.FS,
		devPath: opts.DevPath,
		remote:  opts.Remote,
		secrets: opts.Secrets,
		org:     opts.Org,
		repo:    opts.Repo,
	}
}

// ResolveArtifact dispatches on a.Secret
func (r *Resolver) ResolveArtifact(ctx context.Context, a Artifact) (Resolved, error) {
	if a.Secret {
		return r.ResolveSecret(ctx, a.Name, a.Destination)
	}
	return r.Resolve(ctx, a.Name, a.Destination)
}

// Resolve makes name exist at destination: kept if already there, linked
// from the development checkout if it has the file, fetched otherwise.
func (r *Resolver) Resolve(ctx context.Context, name, destination string) (Resolved, error) {
	res, done, err := r.local(name, destination)
	if done || err != nil {
		return res, err
	}

	if r.remote == nil {
		return res, errors.Newf(errors.ErrArtifactUnavailable, "%s not found locally and no remote source configured", name)
	}
	if err := r.remote.FetchFile(ctx, r.org, r.repo, name, destination); err != nil {
		if errors.IsErrorCode(err, errors.ErrArtifactUnavailable) {
			return res, err
		}
		return res, errors.Wrapf(err, errors.ErrArtifactUnavailable, "failed to fetch %s", name)
	}
	res.Origin = OriginRemote
	r.log(res)
	return res, nil
}

// ResolveSecret is Resolve for secret-bearing artifacts. Instead of a plain
// fetch the secrets store is fetched and materialized, into the development
// checkout (then linked) when there is one, or directly at destination.
func (r *Resolver) ResolveSecret(ctx context.Context, name, destination string) (Resolved, error) {
	res, done, err := r.local(name, destination)
	if done || err != nil {
		return res, err
	}

	if r.secrets == nil {
		return res, errors.Newf(errors.ErrArtifactUnavailable, "%s not found locally and no secrets source configured", name)
	}
	if err := r.secrets.FetchFromRemote(ctx); err != nil {
		return res, errors.Wrapf(err, errors.ErrArtifactUnavailable, "failed to fetch secrets for %s", name)
	}

	target := destination
	dev, hasDev := r.devPath.Get()
	if hasDev {
		target = filepath.Join(dev, name)
	}

	written, err := r.secrets.MaterializeAsCredentials(target)
	if err != nil {
		return res, errors.Wrapf(err, errors.ErrArtifactUnavailable, "failed to materialize %s", name)
	}
	if !written {
		return res, errors.Newf(errors.ErrArtifactUnavailable, "secrets source provided no content for %s", name)
	}

	if !hasDev {
		res.Origin = OriginSecretDirect
		r.log(res)
		return res, nil
	}

	if err := r.link(target, destination); err != nil {
		return res, err
	}
	res.Source = target
	res.Origin = OriginSecretDevelopment
	r.log(res)
	return res, nil
}

// local handles the two resolutions that need no network: the destination
// already exists, or the development checkout has the file
func (r *Resolver) local(name, destination string) (Resolved, bool, error) {
	res := Resolved{Name: name, Destination: destination}

	if _, err := r.fs.Lstat(destination); err == nil {
		res.Origin = OriginExisting
		return res, true, nil
	} else if !os.IsNotExist(err) {
		return res, false, errors.Wrapf(err, errors.ErrFileAccess, "cannot check %s", destination)
	}

	if err := r.fs.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return res, false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(destination))
	}

	dev, ok := r.devPath.Get()
	if !ok {
		return res, false, nil
	}
	src := filepath.Join(dev, name)
	if _, err := r.fs.Stat(src); err != nil {
		return res, false, nil
	}

	if err := r.link(src, destination); err != nil {
		return res, false, err
	}
	res.Source = src
	res.Origin = OriginDevelopmentLink
	r.log(res)
	return res, true, nil
}

func (r *Resolver) link(src, destination string) error {
	if err := r.fs.Symlink(src, destination); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s to %s", destination, src).
			WithDetail("source", src).
			WithDetail("destination", destination)
	}
	return nil
}

func (r *Resolver) log(res Resolved) {
	logger := logging.GetLogger("artifacts")
	logger.Info().
		Str("artifact", res.Name).
		Str("destination", res.Destination).
		Str("origin", res.Origin.String()).
		Msg("Artifact resolved")
}
