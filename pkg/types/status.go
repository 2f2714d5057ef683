package types

import "time"

// Outcome describes what happened to a step during one run
type Outcome string

const (
	// OutcomeSkipped means the ledger already listed the task
	OutcomeSkipped Outcome = "skipped"

	// OutcomeSatisfied means the probe found the capability already present
	OutcomeSatisfied Outcome = "satisfied"

	// OutcomeInstalled means the action ran and returned without error
	OutcomeInstalled Outcome = "installed"

	// OutcomeFailed means the probe or the action returned an error
	OutcomeFailed Outcome = "failed"
)

// StepResult is the record of one step execution
type StepResult struct {
	Task     TaskID
	Outcome  Outcome
	Error    error
	Duration time.Duration
}

// Succeeded reports whether the step finished without error
func (r StepResult) Succeeded() bool {
	return r.Outcome != OutcomeFailed
}

// Report collects the results of a bootstrap run in execution order
type Report struct {
	RunID   string
	Results []StepResult
}

// Failed returns the results whose outcome is OutcomeFailed
func (r Report) Failed() []StepResult {
	var failed []StepResult
	for _, res := range r.Results {
		if !res.Succeeded() {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every step in the run succeeded
func (r Report) OK() bool {
	return len(r.Failed()) == 0
}

// Count returns how many results have the given outcome
func (r Report) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
