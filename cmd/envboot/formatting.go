package envboot

import (
	"os"
	"strings"
	"text/template"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// helpFuncs are the extra functions of the usage template. Headings are
// only emboldened on a color terminal.
func helpFuncs(styled bool) template.FuncMap {
	bold := func(s string) string { return s }
	if styled {
		bold = func(s string) string { return pterm.Bold.Sprint(s) }
	}
	return template.FuncMap{
		"bold":      bold,
		"upper":     strings.ToUpper,
		"boldUpper": func(s string) string { return bold(strings.ToUpper(s)) },
	}
}

func initTemplateFormatting() {
	cobra.AddTemplateFuncs(helpFuncs(stdoutIsTerminal() && !termenv.EnvNoColor()))
}
