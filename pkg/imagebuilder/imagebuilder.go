// Package imagebuilder builds the server container image from a generated
// Dockerfile placed at the root of a materialized repository.
package imagebuilder

import (
	"bytes"
	"context"
	"embed"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/arthur-debert/envboot/pkg/docker"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/types"
)

// DockerfileName is written at the repository root
const DockerfileName = "Dockerfile"

//go:embed templates/Dockerfile.tmpl
var templates embed.FS

var dockerfileTemplate = template.Must(template.ParseFS(templates, "templates/Dockerfile.tmpl"))

// Params are the inputs of the Dockerfile
type Params struct {
	BaseImage      string
	BaseVersion    string
	Maintainer     string
	Workdir        string
	ToolkitChannel string
	ToolkitPackage string
}

// ImageRef names the image to build
type ImageRef struct {
	Org  string
	Name string
	Tag  string
}

func (r ImageRef) String() string {
	return docker.Ref(r.Org, r.Name, r.Tag)
}

// Validate checks that every Dockerfile field is set
func (p Params) Validate() error {
	fields := map[string]string{
		"base_image":      p.BaseImage,
		"base_version":    p.BaseVersion,
		"maintainer":      p.Maintainer,
		"workdir":         p.Workdir,
		"toolkit_channel": p.ToolkitChannel,
		"toolkit_package": p.ToolkitPackage,
	}
	var missing []string
	for _, k := range []string{"base_image", "base_version", "maintainer", "workdir", "toolkit_channel", "toolkit_package"} {
		if strings.TrimSpace(fields[k]) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrInvalidInput, "Dockerfile is missing %s", strings.Join(missing, ", ")).
			WithDetail("fields", missing)
	}
	if strings.ContainsAny(p.Maintainer, "\"\n") {
		return errors.New(errors.ErrInvalidInput, "maintainer cannot contain quotes or newlines")
	}
	return nil
}

// Render returns the Dockerfile text
func Render(p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := dockerfileTemplate.Execute(&buf, p); err != nil {
		return "", errors.Wrap(err, errors.ErrTemplateRender, "failed to render Dockerfile")
	}
	return buf.String(), nil
}

// Builder writes the Dockerfile and hands the build to the engine
type Builder struct {
	fs     types.FS
	engine docker.Engine
}

// New creates a Builder
func New(fs types.FS, engine docker.Engine) *Builder {
	return &Builder{fs: fs, engine: engine}
}

// Build writes <repoPath>/Dockerfile and builds ref from repoPath
func (b *Builder) Build(ctx context.Context, repoPath string, p Params, ref ImageRef) error {
	content, err := Render(p)
	if err != nil {
		return err
	}

	path := filepath.Join(repoPath, DockerfileName)
	if err := filesystem.WriteFileAtomic(b.fs, path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}

	logger := logging.GetLogger("imagebuilder")
	logger.Info().
		Str("image", ref.String()).
		Str("context", repoPath).
		Msg("Building server image")

	if err := b.engine.Build(ctx, repoPath, ref.Org, ref.Name, ref.Tag); err != nil {
		return errors.Wrapf(err, errors.ErrBuildFailed, "failed to build %s", ref).
			WithDetail("image", ref.String())
	}
	return nil
}
