// Package probe detects whether a capability is already present on the
// machine, independently of the completion ledger.
//
// A probe answers Present or Absent. Anything that is neither, such as a
// permission error or a crashing interpreter, is returned as an
// ErrProbe error and never reported as Absent.
package probe

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/envboot/pkg/conda"
	"github.com/arthur-debert/envboot/pkg/docker"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/types"
)

// Probe checks one capability
type Probe interface {
	Name() string
	Check(ctx context.Context) (types.Presence, error)
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// PathLookup finds a tool on the executable search path
type PathLookup struct {
	Tool string
	// LookPath defaults to exec.LookPath
	LookPath func(string) (string, error)
}

func (p PathLookup) Name() string { return "path:" + p.Tool }

func (p PathLookup) Check(ctx context.Context) (types.Presence, error) {
	look := p.LookPath
	if look == nil {
		look = lookPath
	}
	_, err := look(p.Tool)
	if err == nil {
		return types.PresencePresent, nil
	}
	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist) {
		return types.PresenceAbsent, nil
	}
	return types.PresenceAbsent, errors.Wrapf(err, errors.ErrProbe, "cannot look up %s", p.Tool)
}

// ImportProbe asks an interpreter to import a package
type ImportProbe struct {
	Interpreter string
	Package     string
	Exec        executor.Executor
}

func (p ImportProbe) Name() string { return "import:" + p.Package }

// notFoundMarkers identify the one failure that means "not installed"
var notFoundMarkers = []string{"ModuleNotFoundError", "No module named"}

func (p ImportProbe) Check(ctx context.Context) (types.Presence, error) {
	res, err := p.Exec.Run(ctx, executor.Command{
		Name:  p.Interpreter,
		Args:  []string{"-c", "import " + p.Package},
		Quiet: true,
	})
	if err == nil {
		return types.PresencePresent, nil
	}
	if !executor.NotFound(err) {
		for _, marker := range notFoundMarkers {
			if strings.Contains(res.Stderr, marker) {
				return types.PresenceAbsent, nil
			}
		}
	}
	return types.PresenceAbsent, errors.Wrapf(err, errors.ErrProbe, "cannot check whether %s is importable", p.Package).
		WithDetail("stderr", strings.TrimSpace(res.Stderr))
}

// EnvironmentQuery asks the environment manager for a named environment
type EnvironmentQuery struct {
	Manager conda.Manager
	Env     string
}

func (p EnvironmentQuery) Name() string { return "env:" + p.Env }

func (p EnvironmentQuery) Check(ctx context.Context) (types.Presence, error) {
	ok, err := p.Manager.Exists(ctx, p.Env)
	if err != nil {
		return types.PresenceAbsent, errors.Wrapf(err, errors.ErrProbe, "cannot query environment %s", p.Env)
	}
	return types.PresenceOf(ok), nil
}

// ImageQuery asks the container engine for an image
type ImageQuery struct {
	Engine docker.Engine
	Org    string
	Image  string
	Tag    string
}

func (p ImageQuery) Name() string { return "image:" + docker.Ref(p.Org, p.Image, p.Tag) }

func (p ImageQuery) Check(ctx context.Context) (types.Presence, error) {
	ok, err := p.Engine.Exists(ctx, p.Org, p.Image, p.Tag)
	if err != nil {
		return types.PresenceAbsent, errors.Wrapf(err, errors.ErrProbe, "cannot query image %s", docker.Ref(p.Org, p.Image, p.Tag))
	}
	return types.PresenceOf(ok), nil
}

// FileExists checks a path without following a final symlink, so a
// dangling link counts as present
type FileExists struct {
	FS   types.FS
	Path string
}

func (p FileExists) Name() string { return "file:" + p.Path }

func (p FileExists) Check(ctx context.Context) (types.Presence, error) {
	_, err := p.FS.Lstat(p.Path)
	if err == nil {
		return types.PresencePresent, nil
	}
	if os.IsNotExist(err) {
		return types.PresenceAbsent, nil
	}
	return types.PresenceAbsent, errors.Wrapf(err, errors.ErrProbe, "cannot stat %s", p.Path)
}

// Func adapts a function into a Probe
type Func struct {
	Label string
	Fn    func(ctx context.Context) (types.Presence, error)
}

func (p Func) Name() string { return p.Label }

func (p Func) Check(ctx context.Context) (types.Presence, error) { return p.Fn(ctx) }

// Never is a probe that always reports Absent, for steps without a live check
var Never Probe = Func{Label: "never", Fn: func(context.Context) (types.Presence, error) {
	return types.PresenceAbsent, nil
}}

// ToolOnPath reports whether name is on the search path
func ToolOnPath(ctx context.Context, name string) (bool, error) {
	return present(PathLookup{Tool: name}.Check(ctx))
}

// EnvironmentExists reports whether the environment manager knows name
func EnvironmentExists(ctx context.Context, m conda.Manager, name string) (bool, error) {
	return present(EnvironmentQuery{Manager: m, Env: name}.Check(ctx))
}

// ImageExists reports whether the container engine has org/name:tag
func ImageExists(ctx context.Context, e docker.Engine, org, name, tag string) (bool, error) {
	return present(ImageQuery{Engine: e, Org: org, Image: name, Tag: tag}.Check(ctx))
}

// PackageImportable reports whether interpreter can import pkg
func PackageImportable(ctx context.Context, x executor.Executor, interpreter, pkg string) (bool, error) {
	return present(ImportProbe{Interpreter: interpreter, Package: pkg, Exec: x}.Check(ctx))
}

func present(p types.Presence, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return p == types.PresencePresent, nil
}

// Describe formats a probe result for logs
func Describe(p Probe, presence types.Presence) string {
	return fmt.Sprintf("%s=%s", p.Name(), presence)
}
