// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/envboot/pkg/style"
	"github.com/arthur-debert/envboot/pkg/types"
	"github.com/arthur-debert/envboot/pkg/ui/text"
)

// Renderer provides rich terminal output using lipgloss styles
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderReport renders a boxed table of step outcomes
func (r *Renderer) RenderReport(report types.Report) error {
	var rows []string
	for _, res := range report.Results {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			style.OutcomeStyle(res.Outcome).Render(style.OutcomeSymbol(res.Outcome)+" "),
			style.TaskStyle.Render(res.Task.String()),
			style.RenderOutcome(res.Outcome),
			style.MutedStyle.Render(text.Duration(res)),
		)
		rows = append(rows, row)
		if res.Error != nil {
			rows = append(rows, "  "+style.ErrorStyle.Render(res.Error.Error()))
		}
	}

	summaryStyle := style.SuccessStyle
	if !report.OK() {
		summaryStyle = style.ErrorStyle
	}
	body := strings.Join(rows, "\n")
	if body != "" {
		body += "\n\n"
	}
	body += summaryStyle.Render(text.Summary(report))
	if report.RunID != "" {
		body += "\n" + style.MutedStyle.Render("run "+report.RunID)
	}

	_, err := fmt.Fprintln(r.output, style.BoxStyle.Render(body))
	return err
}

// RenderList renders a title and indented items
func (r *Renderer) RenderList(title string, items []string) error {
	var b strings.Builder
	if title != "" {
		b.WriteString(style.TitleStyle.Render(title) + "\n")
	}
	if len(items) == 0 {
		b.WriteString("  " + style.MutedStyle.Render("(empty)") + "\n")
	}
	for _, item := range items {
		b.WriteString("  " + style.PathStyle.Render(item) + "\n")
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error in the error style
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, style.ErrorStyle.Render("Error: ")+err.Error())
	return werr
}

// RenderMessage renders a message in the info style
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.InfoStyle.Render(msg))
	return err
}
