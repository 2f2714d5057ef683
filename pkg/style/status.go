package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/envboot/pkg/types"
)

// OutcomeStyle returns the style of an outcome label
func OutcomeStyle(o types.Outcome) lipgloss.Style {
	switch o {
	case types.OutcomeInstalled:
		return SuccessStyle
	case types.OutcomeSatisfied:
		return InfoStyle
	case types.OutcomeFailed:
		return ErrorStyle
	default:
		return MutedStyle
	}
}

// OutcomeSymbol is a one-character marker for an outcome
func OutcomeSymbol(o types.Outcome) string {
	switch o {
	case types.OutcomeInstalled:
		return "+"
	case types.OutcomeSatisfied:
		return "="
	case types.OutcomeFailed:
		return "x"
	default:
		return "-"
	}
}

// RenderOutcome renders a fixed-width styled outcome label
func RenderOutcome(o types.Outcome) string {
	return OutcomeStyle(o).Width(10).Render(string(o))
}
