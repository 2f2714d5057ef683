// Package ui renders envboot's results in different formats.
// It supports terminal (rich), text (plain), and JSON output formats.
package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/envboot/pkg/types"
	"github.com/arthur-debert/envboot/pkg/ui/json"
	"github.com/arthur-debert/envboot/pkg/ui/terminal"
	"github.com/arthur-debert/envboot/pkg/ui/text"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderReport renders the outcome of a bootstrap run or a single step
	RenderReport(report types.Report) error

	// RenderList renders a titled list, such as the ledger contents
	RenderList(title string, items []string) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format, resolving auto against output
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format.Resolve(output) {
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", string(format))
	}
}
