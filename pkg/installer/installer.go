package installer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/envboot/pkg/artifacts"
	"github.com/arthur-debert/envboot/pkg/conda"
	"github.com/arthur-debert/envboot/pkg/config"
	"github.com/arthur-debert/envboot/pkg/docker"
	"github.com/arthur-debert/envboot/pkg/envbuilder"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/imagebuilder"
	"github.com/arthur-debert/envboot/pkg/ledger"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/materialize"
	"github.com/arthur-debert/envboot/pkg/probe"
	"github.com/arthur-debert/envboot/pkg/remote"
	"github.com/arthur-debert/envboot/pkg/secrets"
	"github.com/arthur-debert/envboot/pkg/types"
)

// Action performs the side effect of a step
type Action func(ctx context.Context) error

// Step binds a task to its live check and its action
type Step struct {
	ID types.TaskID
	// Requires lists steps run before this one, each through its own gate
	Requires []types.TaskID
	Probe    probe.Probe
	Action   Action
}

// Observer is told about step progress
type Observer interface {
	StepStarted(id types.TaskID)
	StepFinished(res types.StepResult)
}

// Options wires an Installer to its collaborators
type Options struct {
	Config *config.Config
	FS     types.FS
	Ledger ledger.Ledger

	Exec    executor.Executor
	Conda   conda.Manager
	Docker  docker.Engine
	Remote  remote.Source
	Secrets secrets.Store
	DevPath *artifacts.DevelopmentPath

	// DataDir receives the config and credentials artifacts
	DataDir string
	// ScratchRoot is where scratch directories are created
	ScratchRoot string

	// DisableTracking makes every step bypass the ledger
	DisableTracking bool
	// Strict records steps only after success. Config.Ledger.Strict also
	// enables it.
	Strict bool

	// LookPath overrides the executable search used by tool probes
	LookPath func(string) (string, error)
	Observer Observer
	RunID    string
}

// Installer runs bootstrap steps against one ledger
type Installer struct {
	cfg    *config.Config
	fs     types.FS
	ledger ledger.Ledger

	exec     executor.Executor
	conda    conda.Manager
	docker   docker.Engine
	resolver *artifacts.Resolver
	repo     *materialize.Materializer
	env      *envbuilder.Builder
	image    *imagebuilder.Builder

	dataDir     string
	scratchRoot string

	track    bool
	strict   bool
	lookPath func(string) (string, error)
	observer Observer
	runID    string
	logger   zerolog.Logger

	opts    Options
	results []types.StepResult
}

// New creates an Installer
func New(opts Options) (*Installer, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "installer requires a configuration")
	}
	if opts.FS == nil || opts.Ledger == nil || opts.Exec == nil {
		return nil, errors.New(errors.ErrInvalidInput, "installer requires a filesystem, a ledger and an executor")
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	cfg := opts.Config
	i := &Installer{
		cfg:    cfg,
		fs:     opts.FS,
		ledger: opts.Ledger,
		exec:   opts.Exec,
		conda:  opts.Conda,
		docker: opts.Docker,
		resolver: artifacts.NewResolver(artifacts.Options{
			FS:      opts.FS,
			DevPath: opts.DevPath,
			Remote:  opts.Remote,
			Secrets: opts.Secrets,
			Org:     cfg.Hub.Org,
			Repo:    cfg.Hub.Package,
		}),
		repo: materialize.New(materialize.Options{
			FS:      opts.FS,
			DevPath: opts.DevPath,
			Remote:  opts.Remote,
			Org:     cfg.Hub.Org,
			Package: cfg.Hub.Package,
		}),
		env:         envbuilder.New(opts.FS, opts.Exec, cfg.Run.Quiet),
		dataDir:     opts.DataDir,
		scratchRoot: opts.ScratchRoot,
		track:       !opts.DisableTracking,
		strict:      opts.Strict || cfg.Ledger.Strict,
		lookPath:    opts.LookPath,
		observer:    opts.Observer,
		runID:       opts.RunID,
		logger:      logging.GetLogger("installer").With().Str("run_id", opts.RunID).Logger(),
		opts:        opts,
	}
	if opts.Docker != nil {
		i.image = imagebuilder.New(opts.FS, opts.Docker)
	}
	return i, nil
}

// RunID identifies this installer's run in logs and reports
func (i *Installer) RunID() string {
	return i.runID
}

// Results returns every top-level step result so far, in execution order
func (i *Installer) Results() []types.StepResult {
	return append([]types.StepResult(nil), i.results...)
}

// Report wraps Results with the run id
func (i *Installer) Report() types.Report {
	return types.Report{RunID: i.runID, Results: i.Results()}
}

// isDone consults the ledger. In the default mode a task not yet listed is
// recorded here, before its action runs.
func (i *Installer) isDone(id types.TaskID) (bool, error) {
	if !i.track {
		return false, nil
	}
	if i.ledger.Contains(id) {
		return true, nil
	}
	if !i.strict {
		if err := i.ledger.Record(id); err != nil {
			return false, err
		}
	}
	return false, nil
}

// markDone records a task after it is known satisfied, in strict mode
func (i *Installer) markDone(id types.TaskID) error {
	if !i.track || !i.strict {
		return nil
	}
	return i.ledger.Record(id)
}

// runStep runs step through its gate. Required steps run first as nested
// runs: they are logged but neither reported nor shown to the observer.
func (i *Installer) runStep(ctx context.Context, step Step, nested bool) types.StepResult {
	start := time.Now()
	logger := i.logger.With().Str("task", step.ID.String()).Bool("nested", nested).Logger()
	observer := i.observer
	if nested {
		observer = nil
	}
	finish := func(outcome types.Outcome, err error) types.StepResult {
		res := types.StepResult{Task: step.ID, Outcome: outcome, Error: err, Duration: time.Since(start)}
		ev := logger.Info()
		if err != nil {
			ev = logger.Error().Err(err)
		}
		ev.Str("outcome", string(outcome)).Dur("duration", res.Duration).Msg("Step finished")
		if observer != nil {
			observer.StepFinished(res)
		}
		return res
	}

	if observer != nil {
		observer.StepStarted(step.ID)
	}

	for _, dep := range step.Requires {
		depStep, err := i.StepFor(dep)
		if err != nil {
			return finish(types.OutcomeFailed, err)
		}
		if res := i.runStep(ctx, depStep, true); res.Outcome == types.OutcomeFailed {
			return finish(types.OutcomeFailed, errors.Wrapf(res.Error, errors.GetErrorCode(res.Error),
				"required step %s failed", dep))
		}
	}

	done, err := i.isDone(step.ID)
	if err != nil {
		return finish(types.OutcomeFailed, err)
	}
	if done {
		logger.Debug().Msg("Already in ledger")
		return finish(types.OutcomeSkipped, nil)
	}

	presence, err := step.Probe.Check(ctx)
	if err != nil {
		return finish(types.OutcomeFailed, err)
	}
	logger.Debug().Str("probe", probe.Describe(step.Probe, presence)).Msg("Probed")
	if presence == types.PresencePresent {
		if err := i.markDone(step.ID); err != nil {
			return finish(types.OutcomeFailed, err)
		}
		return finish(types.OutcomeSatisfied, nil)
	}

	if err := step.Action(ctx); err != nil {
		return finish(types.OutcomeFailed, err)
	}
	if err := i.markDone(step.ID); err != nil {
		return finish(types.OutcomeFailed, err)
	}
	return finish(types.OutcomeInstalled, nil)
}

// run executes a top-level step and keeps its result
func (i *Installer) run(ctx context.Context, step Step) types.StepResult {
	res := i.runStep(ctx, step, false)
	i.results = append(i.results, res)
	return res
}
