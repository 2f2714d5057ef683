package installer

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/envboot/pkg/artifacts"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/ledger"
	"github.com/arthur-debert/envboot/pkg/types"
)

// BootstrapOrder is the order CheckDependencies runs steps in
var BootstrapOrder = []types.TaskID{
	types.TaskPackageManager,
	types.TaskVersionControl,
	types.TaskToolkit,
	types.TaskConfig,
	types.TaskBaseEnvironment,
	types.TaskServerImage,
}

// CheckDependencies runs every bootstrap step in order. A failed step does
// not stop the ones after it.
func (i *Installer) CheckDependencies(ctx context.Context) types.Report {
	i.logger.Info().Int("steps", len(BootstrapOrder)).Bool("strict", i.strict).Bool("tracking", i.track).
		Msg("Checking dependencies")

	report := types.Report{RunID: i.runID}
	for _, id := range BootstrapOrder {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, types.StepResult{Task: id, Outcome: types.OutcomeFailed, Error: err})
			continue
		}
		res, err := i.RunTask(ctx, id)
		if err != nil {
			res = types.StepResult{Task: id, Outcome: types.OutcomeFailed, Error: err}
		}
		report.Results = append(report.Results, res)
	}

	i.logger.Info().
		Int("installed", report.Count(types.OutcomeInstalled)).
		Int("satisfied", report.Count(types.OutcomeSatisfied)).
		Int("skipped", report.Count(types.OutcomeSkipped)).
		Int("failed", report.Count(types.OutcomeFailed)).
		Msg("Dependencies checked")
	return report
}

// BaseInstall is run inside a freshly created base environment. It installs
// the toolkit with tracking disabled and an in-memory ledger, so the
// machine's ledger is never consulted or written.
func (i *Installer) BaseInstall(ctx context.Context) types.StepResult {
	opts := i.opts
	opts.Ledger = ledger.NewMemory()
	opts.DisableTracking = true
	opts.RunID = i.runID

	sub, err := New(opts)
	if err != nil {
		return types.StepResult{Task: types.TaskToolkit, Outcome: types.OutcomeFailed, Error: err}
	}
	res := sub.Toolkit(ctx)
	i.results = append(i.results, res)
	return res
}

// Prepare resolves the config and credentials artifacts into the data
// directory without touching the ledger. Both are attempted; the first
// error is returned.
func (i *Installer) Prepare(ctx context.Context) ([]artifacts.Resolved, error) {
	if err := i.fs.MkdirAll(i.dataDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", i.dataDir)
	}

	var (
		resolved []artifacts.Resolved
		firstErr error
	)
	for _, a := range i.Artifacts() {
		res, err := i.resolver.ResolveArtifact(ctx, a)
		if err != nil {
			i.logger.Warn().Err(err).Str("artifact", a.Name).Msg("Artifact not resolved")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		resolved = append(resolved, res)
	}
	return resolved, firstErr
}

// Artifacts lists the artifacts Prepare resolves
func (i *Installer) Artifacts() []artifacts.Artifact {
	return []artifacts.Artifact{
		{Name: i.cfg.Artifacts.Config, Destination: filepath.Join(i.dataDir, i.cfg.Artifacts.Config)},
		{Name: i.cfg.Artifacts.Credentials, Destination: filepath.Join(i.dataDir, i.cfg.Artifacts.Credentials), Secret: true},
	}
}

// Resolver exposes the artifact resolver used by the steps
func (i *Installer) Resolver() *artifacts.Resolver {
	return i.resolver
}
