package envbuilder_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/envboot/pkg/envbuilder"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/testutil"
)

func params() envbuilder.Params {
	return envbuilder.Params{
		RepoPath:       "/tmp/run-1/ersilia",
		EnvName:        "eos-bentoml-0.11.0-py37",
		PythonVersion:  "3.7",
		SecondaryEntry: "envboot base-install",
		BasePrefix:     "/opt/conda",
	}
}

func TestRender_AtBase(t *testing.T) {
	got, err := envbuilder.Render(params())
	require.NoError(t, err)

	want := `source /opt/conda/etc/profile.d/conda.sh
cd /tmp/run-1/ersilia
conda create -n eos-bentoml-0.11.0-py37 python=3.7 -y
conda activate eos-bentoml-0.11.0-py37
pip install -e .
envboot base-install
conda deactivate
`
	assert.Equal(t, want, got)
}

func TestRender_DeactivatesFirst(t *testing.T) {
	p := params()
	p.DeactivateFirst = true
	p.CurrentPrefix = "/opt/conda/envs/work"

	got, err := envbuilder.Render(p)
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "source /opt/conda/envs/work/etc/profile.d/conda.sh", lines[0])
	assert.Equal(t, "conda deactivate", lines[1])
	assert.Equal(t, "source /opt/conda/etc/profile.d/conda.sh", lines[2])
}

func TestRender_Deterministic(t *testing.T) {
	a, err := envbuilder.Render(params())
	require.NoError(t, err)
	b, err := envbuilder.Render(params())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRender_QuotesValues(t *testing.T) {
	p := params()
	p.RepoPath = "/tmp/my repo/ersilia"

	got, err := envbuilder.Render(p)
	require.NoError(t, err)

	var cdLine string
	for _, l := range strings.Split(got, "\n") {
		if strings.HasPrefix(l, "cd ") {
			cdLine = l
		}
	}
	words, err := shellquote.Split(cdLine)
	require.NoError(t, err)
	assert.Equal(t, []string{"cd", "/tmp/my repo/ersilia"}, words)
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*envbuilder.Params)
		valid  bool
	}{
		{"complete", func(*envbuilder.Params) {}, true},
		{"no repo", func(p *envbuilder.Params) { p.RepoPath = "" }, false},
		{"no env name", func(p *envbuilder.Params) { p.EnvName = " " }, false},
		{"no python", func(p *envbuilder.Params) { p.PythonVersion = "" }, false},
		{"no base prefix", func(p *envbuilder.Params) { p.BasePrefix = "" }, false},
		{"deactivate without current prefix", func(p *envbuilder.Params) { p.DeactivateFirst = true }, false},
		{"empty secondary entry allowed", func(p *envbuilder.Params) { p.SecondaryEntry = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params()
			tt.mutate(&p)
			err := p.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
			}
		})
	}
}

func TestBuild(t *testing.T) {
	scratch := t.TempDir()
	exec := testutil.NewFakeExecutor()
	b := envbuilder.New(filesystem.NewOS(), exec, true)

	require.NoError(t, b.Build(context.Background(), scratch, params()))

	script := filepath.Join(scratch, envbuilder.ScriptName)
	data, err := os.ReadFile(script)
	require.NoError(t, err)
	want, _ := envbuilder.Render(params())
	assert.Equal(t, want, string(data))

	calls := exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "bash", calls[0].Name)
	assert.Equal(t, []string{script}, calls[0].Args)
	assert.True(t, calls[0].Quiet)
}

func TestBuild_Failure(t *testing.T) {
	exec := testutil.NewFakeExecutor().Fail("bash", 1, "conda: command not found")
	b := envbuilder.New(filesystem.NewOS(), exec, true)

	err := b.Build(context.Background(), t.TempDir(), params())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBuildFailed))
	assert.True(t, errors.HasErrorCode(err, errors.ErrCommandFailed))
}

func TestBuild_InvalidParamsRunsNothing(t *testing.T) {
	exec := testutil.NewFakeExecutor()
	b := envbuilder.New(filesystem.NewOS(), exec, true)

	p := params()
	p.EnvName = ""
	require.Error(t, b.Build(context.Background(), t.TempDir(), p))
	assert.Empty(t, exec.Calls())
}
