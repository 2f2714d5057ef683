package ui

import (
	"io"
	"sync"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/envboot/pkg/types"
	"github.com/arthur-debert/envboot/pkg/ui/text"
)

// Progress reports step progress while a run is underway. With Live set it
// shows a spinner per step, otherwise it prints one prefixed line per step.
type Progress struct {
	out  io.Writer
	live bool

	mu       sync.Mutex
	spinners map[types.TaskID]*pterm.SpinnerPrinter
}

// NewProgress creates a Progress writing to out
func NewProgress(out io.Writer, live bool) *Progress {
	return &Progress{out: out, live: live, spinners: map[types.TaskID]*pterm.SpinnerPrinter{}}
}

// NewProgressFor picks live output when format is the rich terminal format
func NewProgressFor(out io.Writer, format Format) *Progress {
	return NewProgress(out, format == FormatTerminal)
}

func (p *Progress) StepStarted(id types.TaskID) {
	if !p.live {
		return
	}
	spinner, err := pterm.DefaultSpinner.
		WithWriter(p.out).
		WithRemoveWhenDone(false).
		Start(id.String())
	if err != nil {
		return
	}
	p.mu.Lock()
	p.spinners[id] = spinner
	p.mu.Unlock()
}

func (p *Progress) StepFinished(res types.StepResult) {
	msg := res.Task.String() + " " + string(res.Outcome)
	if d := text.Duration(res); d != "" {
		msg += " (" + d + ")"
	}
	if res.Error != nil {
		msg += ": " + res.Error.Error()
	}

	p.mu.Lock()
	spinner := p.spinners[res.Task]
	delete(p.spinners, res.Task)
	p.mu.Unlock()

	if spinner != nil {
		switch res.Outcome {
		case types.OutcomeFailed:
			spinner.Fail(msg)
		case types.OutcomeInstalled:
			spinner.Success(msg)
		default:
			spinner.Info(msg)
		}
		return
	}

	printer := pterm.Info
	switch res.Outcome {
	case types.OutcomeFailed:
		printer = pterm.Error
	case types.OutcomeInstalled:
		printer = pterm.Success
	}
	printer.WithWriter(p.out).Println(msg)
}
