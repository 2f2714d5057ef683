package installer

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/arthur-debert/envboot/pkg/envbuilder"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/imagebuilder"
	"github.com/arthur-debert/envboot/pkg/materialize"
	"github.com/arthur-debert/envboot/pkg/probe"
	"github.com/arthur-debert/envboot/pkg/types"
)

// PackageManager makes conda available
func (i *Installer) PackageManager(ctx context.Context) types.StepResult {
	return i.run(ctx, i.packageManagerStep())
}

// VersionControl makes git available. The package manager step runs first.
func (i *Installer) VersionControl(ctx context.Context) types.StepResult {
	return i.run(ctx, i.versionControlStep())
}

// Toolkit installs the domain toolkit package
func (i *Installer) Toolkit(ctx context.Context) types.StepResult {
	return i.run(ctx, i.toolkitStep())
}

// Config resolves the config artifact into the data directory
func (i *Installer) Config(ctx context.Context) types.StepResult {
	return i.run(ctx, i.configStep())
}

// Credentials resolves the credentials artifact into the data directory
func (i *Installer) Credentials(ctx context.Context) types.StepResult {
	return i.run(ctx, i.credentialsStep())
}

// BaseEnvironment creates the isolated base environment
func (i *Installer) BaseEnvironment(ctx context.Context) types.StepResult {
	return i.run(ctx, i.baseEnvironmentStep())
}

// ServerImage builds the server container image
func (i *Installer) ServerImage(ctx context.Context) types.StepResult {
	return i.run(ctx, i.serverImageStep())
}

// StepFor returns the step definition of a task
func (i *Installer) StepFor(id types.TaskID) (Step, error) {
	switch id {
	case types.TaskPackageManager:
		return i.packageManagerStep(), nil
	case types.TaskVersionControl:
		return i.versionControlStep(), nil
	case types.TaskToolkit:
		return i.toolkitStep(), nil
	case types.TaskConfig:
		return i.configStep(), nil
	case types.TaskCredentials:
		return i.credentialsStep(), nil
	case types.TaskBaseEnvironment:
		return i.baseEnvironmentStep(), nil
	case types.TaskServerImage:
		return i.serverImageStep(), nil
	}
	return Step{}, errors.Newf(errors.ErrNotFound, "unknown task %q", id)
}

// RunTask runs a single task by id
func (i *Installer) RunTask(ctx context.Context, id types.TaskID) (types.StepResult, error) {
	step, err := i.StepFor(id)
	if err != nil {
		return types.StepResult{}, err
	}
	return i.run(ctx, step), nil
}

func (i *Installer) toolProbe(tool string) probe.Probe {
	return probe.PathLookup{Tool: tool, LookPath: i.lookPath}
}

func (i *Installer) packageManagerStep() Step {
	return Step{
		ID:    types.TaskPackageManager,
		Probe: i.toolProbe("conda"),
		Action: func(ctx context.Context) error {
			return i.runLine(ctx, i.cfg.Installers.PackageManager)
		},
	}
}

func (i *Installer) versionControlStep() Step {
	return Step{
		ID:       types.TaskVersionControl,
		Requires: []types.TaskID{types.TaskPackageManager},
		Probe:    i.toolProbe("git"),
		Action: func(ctx context.Context) error {
			return i.runLine(ctx, i.cfg.Installers.VersionControl)
		},
	}
}

func (i *Installer) toolkitStep() Step {
	tk := i.cfg.Toolkit
	return Step{
		ID: types.TaskToolkit,
		Probe: probe.ImportProbe{
			Interpreter: tk.Interpreter,
			Package:     tk.Package,
			Exec:        i.exec,
		},
		Action: func(ctx context.Context) error {
			return i.runCommand(ctx, executor.Command{
				Name: "conda",
				Args: []string{"install", "-c", tk.Channel, "-y", "-q", tk.Package},
			})
		},
	}
}

func (i *Installer) configStep() Step {
	dst := i.artifactPath(i.cfg.Artifacts.Config)
	return Step{
		ID:    types.TaskConfig,
		Probe: probe.FileExists{FS: i.fs, Path: dst},
		Action: func(ctx context.Context) error {
			_, err := i.resolver.Resolve(ctx, i.cfg.Artifacts.Config, dst)
			return err
		},
	}
}

func (i *Installer) credentialsStep() Step {
	dst := i.artifactPath(i.cfg.Artifacts.Credentials)
	return Step{
		ID:    types.TaskCredentials,
		Probe: probe.FileExists{FS: i.fs, Path: dst},
		Action: func(ctx context.Context) error {
			_, err := i.resolver.ResolveSecret(ctx, i.cfg.Artifacts.Credentials, dst)
			return err
		},
	}
}

func (i *Installer) baseEnvironmentStep() Step {
	name := i.cfg.BaseEnvName()
	return Step{
		ID:    types.TaskBaseEnvironment,
		Probe: i.envProbe(name),
		Action: func(ctx context.Context) error {
			if i.conda == nil {
				return errors.New(errors.ErrInvalidInput, "no environment manager configured")
			}
			scratch, repoPath, err := i.materialize(ctx)
			if err != nil {
				return err
			}
			params, err := i.envParams(ctx, repoPath)
			if err != nil {
				return err
			}
			return i.env.Build(ctx, scratch, params)
		},
	}
}

func (i *Installer) serverImageStep() Step {
	ref := i.ImageRef()
	return Step{
		ID:    types.TaskServerImage,
		Probe: i.imageProbe(ref),
		Action: func(ctx context.Context) error {
			if i.image == nil {
				return errors.New(errors.ErrInvalidInput, "no container engine configured")
			}
			_, repoPath, err := i.materialize(ctx)
			if err != nil {
				return err
			}
			return i.image.Build(ctx, repoPath, i.ImageParams(), ref)
		},
	}
}

func (i *Installer) envProbe(name string) probe.Probe {
	if i.conda == nil {
		return probe.Never
	}
	return probe.EnvironmentQuery{Manager: i.conda, Env: name}
}

func (i *Installer) imageProbe(ref imagebuilder.ImageRef) probe.Probe {
	if i.docker == nil {
		return probe.Never
	}
	return probe.ImageQuery{Engine: i.docker, Org: ref.Org, Image: ref.Name, Tag: ref.Tag}
}

// envParams returns the environment script inputs for a repository path.
// The environment manager is asked for the activation prefixes.
func (i *Installer) envParams(ctx context.Context, repoPath string) (envbuilder.Params, error) {
	p := envbuilder.Params{
		RepoPath:       repoPath,
		EnvName:        i.cfg.BaseEnvName(),
		PythonVersion:  i.cfg.Versions.Python,
		SecondaryEntry: i.cfg.Run.SecondaryEntry,
	}
	base, err := i.conda.ActivationPrefix(ctx, true)
	if err != nil {
		return p, errors.Wrap(err, errors.ErrBuildFailed, "cannot locate the base environment")
	}
	p.BasePrefix = base
	if !i.conda.IsBaseActive() {
		current, err := i.conda.ActivationPrefix(ctx, false)
		if err != nil {
			return p, errors.Wrap(err, errors.ErrBuildFailed, "cannot locate the active environment")
		}
		p.DeactivateFirst = true
		p.CurrentPrefix = current
	}
	return p, nil
}

// EnvParams is envParams for callers outside a step, such as rendering
func (i *Installer) EnvParams(ctx context.Context, repoPath string) (envbuilder.Params, error) {
	if i.conda == nil {
		return envbuilder.Params{}, errors.New(errors.ErrInvalidInput, "no environment manager configured")
	}
	return i.envParams(ctx, repoPath)
}

// ImageParams returns the Dockerfile inputs from configuration
func (i *Installer) ImageParams() imagebuilder.Params {
	return imagebuilder.Params{
		BaseImage:      i.cfg.Image.Base,
		BaseVersion:    i.cfg.Versions.BentoML,
		Maintainer:     i.cfg.Image.Maintainer,
		Workdir:        i.cfg.Image.Workdir,
		ToolkitChannel: i.cfg.Toolkit.Channel,
		ToolkitPackage: i.cfg.Toolkit.Package,
	}
}

// ImageRef names the server image from configuration
func (i *Installer) ImageRef() imagebuilder.ImageRef {
	return imagebuilder.ImageRef{Org: i.cfg.Image.Org, Name: i.cfg.Image.Name, Tag: i.cfg.ImageTag()}
}

func (i *Installer) materialize(ctx context.Context) (string, string, error) {
	scratch, err := materialize.NewScratchDir(i.scratchRoot)
	if err != nil {
		return "", "", err
	}
	repoPath, err := i.repo.Materialize(ctx, scratch)
	if err != nil {
		return "", "", err
	}
	return scratch, repoPath, nil
}

func (i *Installer) artifactPath(name string) string {
	return filepath.Join(i.dataDir, name)
}

// shellOperators mark installer lines that only a shell can run
const shellOperators = "|&;<>$`"

// runLine runs a configured installer command line. Lines using pipes,
// redirects or expansions go through sh; plain ones are split and run directly.
func (i *Installer) runLine(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return errors.New(errors.ErrConfigInvalid, "empty installer command")
	}
	if strings.ContainsAny(line, shellOperators) {
		return i.runCommand(ctx, executor.ShellCommand(line))
	}
	words, err := shellquote.Split(line)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "cannot parse installer command %q", line)
	}
	if len(words) == 0 {
		return errors.New(errors.ErrConfigInvalid, "empty installer command")
	}
	return i.runCommand(ctx, executor.Command{Name: words[0], Args: words[1:]})
}

func (i *Installer) runCommand(ctx context.Context, cmd executor.Command) error {
	cmd.Quiet = i.cfg.Run.Quiet
	_, err := i.exec.Run(ctx, cmd)
	return err
}
