// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/types"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

type stepJSON struct {
	Task       string `json:"task"`
	Outcome    string `json:"outcome"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Code       string `json:"code,omitempty"`
}

type reportJSON struct {
	RunID   string     `json:"run_id"`
	OK      bool       `json:"ok"`
	Results []stepJSON `json:"results"`
}

// RenderReport encodes the report
func (r *Renderer) RenderReport(report types.Report) error {
	out := reportJSON{RunID: report.RunID, OK: report.OK(), Results: []stepJSON{}}
	for _, res := range report.Results {
		s := stepJSON{
			Task:       res.Task.String(),
			Outcome:    string(res.Outcome),
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Error != nil {
			s.Error = res.Error.Error()
			s.Code = string(errors.GetErrorCode(res.Error))
		}
		out.Results = append(out.Results, s)
	}
	return r.encoder.Encode(out)
}

// RenderList encodes the items under the title
func (r *Renderer) RenderList(title string, items []string) error {
	if items == nil {
		items = []string{}
	}
	return r.encoder.Encode(map[string]interface{}{"title": title, "items": items})
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{
		"error": err.Error(),
		"code":  string(errors.GetErrorCode(err)),
	})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
