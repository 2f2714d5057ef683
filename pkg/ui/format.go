package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format names one of the output renderers
type Format string

const (
	FormatAuto     Format = "auto"
	FormatTerminal Format = "terminal"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

var formatAliases = map[string]Format{
	"":      FormatAuto,
	"term":  FormatTerminal,
	"plain": FormatText,
}

// Formats lists the values accepted by ParseFormat, in help order
func Formats() []Format {
	return []Format{FormatAuto, FormatTerminal, FormatText, FormatJSON}
}

func (f Format) String() string { return string(f) }

// ParseFormat accepts a format name or one of its aliases, ignoring case
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return FormatAuto, fmt.Errorf("unknown format: %q", s)
}

type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// Resolve turns auto into a concrete format for w. Only a color capable
// terminal gets the rich format; buffers and pipes get plain text.
func (f Format) Resolve(w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	tty, ok := w.(fdWriter)
	if !ok || termenv.EnvNoColor() {
		return FormatText
	}
	if !isatty.IsTerminal(tty.Fd()) && !isatty.IsCygwinTerminal(tty.Fd()) {
		return FormatText
	}
	if termenv.NewOutput(w).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
