// Package style holds the lipgloss styles of envboot's terminal output.
// Colors adapt to light and dark terminal backgrounds.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#4B4FD6", Dark: "#8C8FFF"}
	subtle = lipgloss.AdaptiveColor{Light: "#7D828A", Dark: "#8E949C"}
	green  = lipgloss.AdaptiveColor{Light: "#1F8A4C", Dark: "#5FD38D"}
	red    = lipgloss.AdaptiveColor{Light: "#C62D3B", Dark: "#FF7A85"}
	cyan   = lipgloss.AdaptiveColor{Light: "#127C91", Dark: "#5CCFE6"}
	ink    = lipgloss.AdaptiveColor{Light: "#1B1D21", Dark: "#EEF0F3"}
	frame  = lipgloss.AdaptiveColor{Light: "#D3D7DD", Dark: "#3A3F4B"}
)

var (
	TitleStyle   = lipgloss.NewStyle().Foreground(ink).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(subtle)
	SuccessStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(cyan)
	PathStyle    = lipgloss.NewStyle().Foreground(subtle).Italic(true)

	// TaskStyle pads task ids so report columns line up
	TaskStyle = lipgloss.NewStyle().Foreground(accent).Width(15)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(frame).
			Padding(0, 1)
)
