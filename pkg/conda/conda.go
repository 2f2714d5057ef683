// Package conda talks to the conda environment manager.
package conda

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/logging"
)

// Manager is what the installer needs from the environment manager
type Manager interface {
	// Exists reports whether a named environment exists
	Exists(ctx context.Context, name string) (bool, error)
	// IsBaseActive reports whether no environment other than base is active
	IsBaseActive() bool
	// ActivationPrefix returns the prefix whose etc/profile.d/conda.sh
	// activates conda, for the base installation or the active environment
	ActivationPrefix(ctx context.Context, forBase bool) (string, error)
}

// CLI implements Manager with the conda command line
type CLI struct {
	exec   executor.Executor
	binary string
	getenv func(string) string
}

// NewCLI returns a Manager running the conda binary through exec
func NewCLI(exec executor.Executor) *CLI {
	return &CLI{exec: exec, binary: "conda", getenv: os.Getenv}
}

type envList struct {
	Envs []string `json:"envs"`
}

// Exists lists environments as JSON and matches name against their directory
// names. A machine without conda has no environments.
func (c *CLI) Exists(ctx context.Context, name string) (bool, error) {
	res, err := c.exec.Run(ctx, executor.Command{Name: c.binary, Args: []string{"env", "list", "--json"}, Quiet: true})
	if err != nil {
		if executor.NotFound(err) {
			return false, nil
		}
		return false, err
	}

	var list envList
	if err := json.Unmarshal([]byte(res.Stdout), &list); err != nil {
		return false, errors.Wrap(err, errors.ErrCommandFailed, "unexpected output from conda env list").
			WithDetail("output", res.Stdout)
	}
	for _, env := range list.Envs {
		if filepath.Base(env) == name {
			logger := logging.GetLogger("conda")
			logger.Debug().Str("env", name).Str("path", env).Msg("Environment found")
			return true, nil
		}
	}
	return false, nil
}

// IsBaseActive is true when CONDA_DEFAULT_ENV is base or unset
func (c *CLI) IsBaseActive() bool {
	env := c.getenv("CONDA_DEFAULT_ENV")
	return env == "" || env == "base"
}

// ActivationPrefix returns `conda info --base` for the base installation and
// $CONDA_PREFIX for the active environment
func (c *CLI) ActivationPrefix(ctx context.Context, forBase bool) (string, error) {
	if !forBase {
		if prefix := c.getenv("CONDA_PREFIX"); prefix != "" {
			return prefix, nil
		}
		return "", errors.New(errors.ErrNotFound, "CONDA_PREFIX is not set, no active conda environment")
	}

	res, err := c.exec.Run(ctx, executor.Command{Name: c.binary, Args: []string{"info", "--base"}, Quiet: true})
	if err != nil {
		return "", err
	}
	prefix := strings.TrimSpace(res.Stdout)
	if prefix == "" {
		return "", errors.New(errors.ErrNotFound, "conda info --base returned nothing")
	}
	return prefix, nil
}
