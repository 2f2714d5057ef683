// Package envbuilder creates the base Python environment by generating a
// bash script and running it once.
package envbuilder

import (
	"bytes"
	"context"
	"embed"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/kballard/go-shellquote"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/types"
)

// ScriptName is the file written into the scratch directory
const ScriptName = "script.sh"

//go:embed templates/base_env.sh.tmpl
var templates embed.FS

var scriptTemplate = template.Must(
	template.New("base_env.sh.tmpl").
		Funcs(template.FuncMap{"quote": quote}).
		ParseFS(templates, "templates/base_env.sh.tmpl"),
)

func quote(s string) string {
	return shellquote.Join(s)
}

// Params are the inputs of the environment script
type Params struct {
	RepoPath      string
	EnvName       string
	PythonVersion string
	// SecondaryEntry is a command line run inside the new environment
	SecondaryEntry string
	// DeactivateFirst leaves the currently active environment before
	// activating base
	DeactivateFirst bool
	CurrentPrefix   string
	BasePrefix      string
}

// Validate checks that every field the script needs is set
func (p Params) Validate() error {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("repo_path", p.RepoPath)
	check("env_name", p.EnvName)
	check("python_version", p.PythonVersion)
	check("base_prefix", p.BasePrefix)
	if p.DeactivateFirst {
		check("current_prefix", p.CurrentPrefix)
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrInvalidInput, "environment script is missing %s", strings.Join(missing, ", ")).
			WithDetail("fields", missing)
	}
	return nil
}

// Render returns the script text. Equal params give identical output.
func Render(p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, p); err != nil {
		return "", errors.Wrap(err, errors.ErrTemplateRender, "failed to render environment script")
	}
	out := strings.TrimLeft(buf.String(), "\n")
	return out, nil
}

// Builder writes and runs the environment script
type Builder struct {
	fs    types.FS
	exec  executor.Executor
	quiet bool
}

// New creates a Builder
func New(fs types.FS, exec executor.Executor, quiet bool) *Builder {
	return &Builder{fs: fs, exec: exec, quiet: quiet}
}

// Build renders the script into scratchDir and runs it with bash
func (b *Builder) Build(ctx context.Context, scratchDir string, p Params) error {
	script, err := Render(p)
	if err != nil {
		return err
	}

	path := filepath.Join(scratchDir, ScriptName)
	if err := filesystem.WriteFileAtomic(b.fs, path, []byte(script), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}

	logger := logging.GetLogger("envbuilder")
	logger.Info().
		Str("env", p.EnvName).
		Str("script", path).
		Msg("Creating base environment")

	if _, err := b.exec.Run(ctx, executor.Command{
		Name:  "bash",
		Args:  []string{path},
		Dir:   scratchDir,
		Quiet: b.quiet,
	}); err != nil {
		return errors.Wrapf(err, errors.ErrBuildFailed, "failed to create environment %s", p.EnvName).
			WithDetail("script", path)
	}
	return nil
}
