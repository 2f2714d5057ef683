// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/arthur-debert/envboot/pkg/types"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderReport writes one line per step and a summary line
func (r *Renderer) RenderReport(report types.Report) error {
	for _, res := range report.Results {
		line := fmt.Sprintf("%-15s %-10s %s", res.Task, res.Outcome, Duration(res))
		if res.Error != nil {
			line += "  " + res.Error.Error()
		}
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.output, Summary(report))
	return err
}

// RenderList writes the title and one item per line
func (r *Renderer) RenderList(title string, items []string) error {
	if title != "" {
		if _, err := fmt.Fprintln(r.output, title); err != nil {
			return err
		}
	}
	for _, item := range items {
		if _, err := fmt.Fprintln(r.output, item); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// Duration formats a step duration, or "" for steps that did not run
func Duration(res types.StepResult) string {
	if res.Duration <= 0 {
		return ""
	}
	return humanize.FtoaWithDigits(res.Duration.Seconds(), 2) + "s"
}

// Summary counts outcomes in one line
func Summary(report types.Report) string {
	return fmt.Sprintf("%d installed, %d satisfied, %d skipped, %d failed",
		report.Count(types.OutcomeInstalled),
		report.Count(types.OutcomeSatisfied),
		report.Count(types.OutcomeSkipped),
		report.Count(types.OutcomeFailed))
}
