// Package docker talks to the container engine.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
)

// Engine is what the installer needs from the container engine
type Engine interface {
	Exists(ctx context.Context, org, img, tag string) (bool, error)
	Build(ctx context.Context, path, org, img, tag string) error
}

// Ref formats org/img:tag
func Ref(org, img, tag string) string {
	return fmt.Sprintf("%s/%s:%s", org, img, tag)
}

// CLI implements Engine with the docker command line
type CLI struct {
	exec   executor.Executor
	binary string
	quiet  bool
}

// NewCLI returns an Engine running the docker binary through exec.
// Build output is shown unless quiet is set.
func NewCLI(exec executor.Executor, quiet bool) *CLI {
	return &CLI{exec: exec, binary: "docker", quiet: quiet}
}

// noSuchImage is how docker reports a missing image on stderr
const noSuchImage = "no such image"

// Exists inspects the image. Only an inspect that exits 1 saying the image
// does not exist counts as absent; an unreachable daemon, a missing binary
// or any other failure is returned as an error.
func (c *CLI) Exists(ctx context.Context, org, img, tag string) (bool, error) {
	ref := Ref(org, img, tag)
	res, err := c.exec.Run(ctx, executor.Command{
		Name:  c.binary,
		Args:  []string{"image", "inspect", ref},
		Quiet: true,
	})
	if err == nil {
		return true, nil
	}
	if res.ExitCode == 1 && strings.Contains(strings.ToLower(res.Stderr), noSuchImage) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrProbe, "cannot inspect image %s", ref).
		WithDetail("stderr", strings.TrimSpace(res.Stderr))
}

// Build runs docker build -t org/img:tag path
func (c *CLI) Build(ctx context.Context, path, org, img, tag string) error {
	_, err := c.exec.Run(ctx, executor.Command{
		Name:  c.binary,
		Args:  []string{"build", "-t", Ref(org, img, tag), path},
		Dir:   path,
		Quiet: c.quiet,
	})
	return err
}
