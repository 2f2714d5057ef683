// Package remote fetches files and repositories from the source host.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/types"
)

// Source is the remote source host
type Source interface {
	// FetchFile downloads one file of org/repo into dst
	FetchFile(ctx context.Context, org, repo, filename, dst string) error
	// Clone checks out org/repo into dst
	Clone(ctx context.Context, org, repo, dst string) error
}

// GitHubOptions configures a GitHub source
type GitHubOptions struct {
	RawBaseURL   string
	CloneBaseURL string
	Branch       string
	// Token, when set, is sent as a bearer token on raw file requests
	Token    string
	Client   *http.Client
	Executor executor.Executor
	FS       types.FS
}

// GitHub serves raw files over HTTPS and clones with git
type GitHub struct {
	rawBaseURL   string
	cloneBaseURL string
	branch       string
	token        string
	client       *http.Client
	exec         executor.Executor
	fs           types.FS
}

// NewGitHub creates a GitHub source
func NewGitHub(opts GitHubOptions) *GitHub {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	return &GitHub{
		rawBaseURL:   strings.TrimRight(opts.RawBaseURL, "/"),
		cloneBaseURL: strings.TrimRight(opts.CloneBaseURL, "/"),
		branch:       opts.Branch,
		token:        opts.Token,
		client:       client,
		exec:         opts.Executor,
		fs:           fs,
	}
}

// FileURL is where filename of org/repo is served
func (g *GitHub) FileURL(org, repo, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", g.rawBaseURL, org, repo, g.branch, filename)
}

// RepoURL is the clone URL of org/repo
func (g *GitHub) RepoURL(org, repo string) string {
	return fmt.Sprintf("%s/%s/%s.git", g.cloneBaseURL, org, repo)
}

// FetchFile downloads the file and replaces dst with it
func (g *GitHub) FetchFile(ctx context.Context, org, repo, filename, dst string) error {
	url := g.FileURL(org, repo, filename)
	logger := logging.GetLogger("remote").With().Str("url", url).Str("dst", dst).Logger()
	done := logging.LogOperationStart(logger, "fetch")
	defer done()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "bad remote url %s", url)
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArtifactUnavailable, "failed to fetch %s", filename).
			WithDetail("url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf(errors.ErrArtifactUnavailable, "failed to fetch %s: %s", filename, resp.Status).
			WithDetail("url", url).
			WithDetail("status", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArtifactUnavailable, "failed to read %s", filename).
			WithDetail("url", url)
	}
	if err := filesystem.WriteFileAtomic(g.fs, dst, body, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dst)
	}
	logger.Info().Int("bytes", len(body)).Msg("Fetched remote file")
	return nil
}

// Clone runs a shallow git clone of the configured branch into dst
func (g *GitHub) Clone(ctx context.Context, org, repo, dst string) error {
	if g.exec == nil {
		return errors.New(errors.ErrInternal, "remote source has no executor")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dst))
	}

	args := []string{"clone", "--depth", "1"}
	if g.branch != "" {
		args = append(args, "--branch", g.branch)
	}
	args = append(args, g.RepoURL(org, repo), dst)

	if _, err := g.exec.Run(ctx, executor.Command{Name: "git", Args: args, Quiet: true}); err != nil {
		return errors.Wrapf(err, errors.ErrArtifactUnavailable, "failed to clone %s/%s", org, repo)
	}
	return nil
}
