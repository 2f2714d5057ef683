package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/types"
	"github.com/arthur-debert/envboot/pkg/ui"
)

func sampleReport() types.Report {
	return types.Report{
		RunID: "run-1",
		Results: []types.StepResult{
			{Task: types.TaskPackageManager, Outcome: types.OutcomeSkipped},
			{Task: types.TaskToolkit, Outcome: types.OutcomeInstalled, Duration: 1500 * time.Millisecond},
			{Task: types.TaskServerImage, Outcome: types.OutcomeFailed, Error: errors.New(errors.ErrBuildFailed, "docker build failed")},
		},
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name        string
		format      ui.Format
		expectError bool
	}{
		{"terminal", ui.FormatTerminal, false},
		{"text", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"auto with buffer", ui.FormatAuto, false},
		{"invalid", ui.Format("yaml"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, err := ui.NewRenderer(tt.format, &bytes.Buffer{})
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, renderer)
				assert.Contains(t, err.Error(), "unknown format")
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, renderer)
			}
		})
	}
}

func TestRenderReport_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderReport(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "conda")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "docker build failed")
	assert.Contains(t, out, "1 installed, 0 satisfied, 1 skipped, 1 failed")
}

func TestRenderReport_Terminal(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatTerminal, buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderReport(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "server_docker")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "run run-1")
}

func TestRenderReport_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderReport(sampleReport()))

	var got struct {
		RunID   string `json:"run_id"`
		OK      bool   `json:"ok"`
		Results []struct {
			Task       string `json:"task"`
			Outcome    string `json:"outcome"`
			DurationMS int64  `json:"duration_ms"`
			Code       string `json:"code"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.False(t, got.OK)
	require.Len(t, got.Results, 3)
	assert.Equal(t, int64(1500), got.Results[1].DurationMS)
	assert.Equal(t, "BUILD_FAILED", got.Results[2].Code)
}

func TestRenderList(t *testing.T) {
	for _, format := range []ui.Format{ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			buf := &bytes.Buffer{}
			r, err := ui.NewRenderer(format, buf)
			require.NoError(t, err)

			require.NoError(t, r.RenderList("Ledger", []string{"conda", "git"}))
			assert.Contains(t, buf.String(), "conda")
			assert.Contains(t, buf.String(), "git")
		})
	}
}

func TestRenderErrorAndMessage(t *testing.T) {
	for _, format := range []ui.Format{ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			buf := &bytes.Buffer{}
			r, err := ui.NewRenderer(format, buf)
			require.NoError(t, err)

			require.NoError(t, r.RenderError(errors.New(errors.ErrArtifactUnavailable, "fetch failed")))
			require.NoError(t, r.RenderMessage("hello"))
			assert.Contains(t, buf.String(), "fetch failed")
			assert.Contains(t, buf.String(), "hello")
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ui.Format
		err  bool
	}{
		{"", ui.FormatAuto, false},
		{"auto", ui.FormatAuto, false},
		{"terminal", ui.FormatTerminal, false},
		{"term", ui.FormatTerminal, false},
		{" TEXT ", ui.FormatText, false},
		{"plain", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"yaml", ui.FormatAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatResolve(t *testing.T) {
	assert.Equal(t, ui.FormatText, ui.FormatAuto.Resolve(&bytes.Buffer{}))
	assert.Equal(t, ui.FormatJSON, ui.FormatJSON.Resolve(&bytes.Buffer{}))
	assert.Equal(t, ui.FormatTerminal, ui.FormatTerminal.Resolve(&bytes.Buffer{}))

	t.Run("file that is not a terminal", func(t *testing.T) {
		f, err := createTemp(t)
		require.NoError(t, err)
		assert.Equal(t, ui.FormatText, ui.FormatAuto.Resolve(f))
	})

	t.Run("no color", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		f, err := createTemp(t)
		require.NoError(t, err)
		assert.Equal(t, ui.FormatText, ui.FormatAuto.Resolve(f))
	})
}

func TestFormats(t *testing.T) {
	for _, f := range ui.Formats() {
		got, err := ui.ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestProgress_PlainLines(t *testing.T) {
	buf := &bytes.Buffer{}
	p := ui.NewProgress(buf, false)

	p.StepStarted(types.TaskToolkit)
	p.StepFinished(types.StepResult{Task: types.TaskToolkit, Outcome: types.OutcomeInstalled, Duration: 2 * time.Second})
	p.StepFinished(types.StepResult{Task: types.TaskConfig, Outcome: types.OutcomeFailed, Error: errors.New(errors.ErrArtifactUnavailable, "404")})

	out := buf.String()
	assert.Contains(t, out, "rdkit installed (2s)")
	assert.Contains(t, out, "config failed: ")
	assert.Contains(t, out, "404")
}
