package topics

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for display. ext is the extension of the
// file the content came from, including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(content string, ext string) string

func (f RendererFunc) Render(content string, ext string) string { return f(content, ext) }

// PlainRenderer shows topics as written
var PlainRenderer Renderer = RendererFunc(func(content, _ string) string { return content })

// MarkdownRenderer renders .md topics through glamour. Other extensions
// and render failures fall back to the raw text.
type MarkdownRenderer struct {
	style string
	width int

	once sync.Once
	term *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for style: "auto" follows the
// terminal background, anything else is a glamour style name or path.
// A positive width wraps lines.
func NewMarkdownRenderer(style string, width int) *MarkdownRenderer {
	return &MarkdownRenderer{style: style, width: width}
}

func (r *MarkdownRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}
	r.once.Do(func() {
		opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
		if r.style != "" && r.style != "auto" {
			opts = []glamour.TermRendererOption{glamour.WithStylePath(r.style)}
		}
		if r.width > 0 {
			opts = append(opts, glamour.WithWordWrap(r.width))
		}
		r.term, _ = glamour.NewTermRenderer(opts...)
	})
	if r.term == nil {
		return content
	}
	out, err := r.term.Render(content)
	if err != nil {
		return content
	}
	return out
}
