package envboot

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/envboot/pkg/artifacts"
	"github.com/arthur-debert/envboot/pkg/conda"
	"github.com/arthur-debert/envboot/pkg/config"
	"github.com/arthur-debert/envboot/pkg/docker"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/installer"
	"github.com/arthur-debert/envboot/pkg/ledger"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/paths"
	"github.com/arthur-debert/envboot/pkg/remote"
	"github.com/arthur-debert/envboot/pkg/secrets"
	"github.com/arthur-debert/envboot/pkg/types"
	"github.com/arthur-debert/envboot/pkg/ui"
)

// deps is how commands reach the machine. Nil fields get the real thing.
type deps struct {
	FS       types.FS
	Exec     executor.Executor
	LookPath func(string) (string, error)
	Remote   remote.Source
	Secrets  secrets.Store
}

// globalFlags holds the persistent flags of the root command
type globalFlags struct {
	verbosity  int
	configFile string
	noTrack    bool
	strict     bool
	format     string
}

// app lazily resolves paths and configuration for the commands that need them
type app struct {
	deps  deps
	flags globalFlags

	paths paths.Paths
	cfg   *config.Config
}

func newApp(d deps) *app {
	if d.FS == nil {
		d.FS = filesystem.NewOS()
	}
	return &app{deps: d}
}

func (a *app) load() error {
	if a.cfg != nil {
		return nil
	}
	p, err := paths.New()
	if err != nil {
		return errors.Wrap(err, errors.GetErrorCode(err), "failed to initialize paths")
	}
	overrides := map[string]interface{}{}
	if a.flags.strict {
		overrides["ledger.strict"] = true
	}
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: a.flags.configFile,
		ConfigDir:  p.ConfigDir(),
		Overrides:  overrides,
	})
	if err != nil {
		return err
	}
	a.paths, a.cfg = p, cfg
	log.Debug().Str("data_dir", p.DataDir()).Str("config_dir", p.ConfigDir()).Msg("Configuration loaded")
	return nil
}

func (a *app) executor(cmd *cobra.Command) executor.Executor {
	if a.deps.Exec != nil {
		return a.deps.Exec
	}
	// child output goes to stderr so stdout only carries the report
	return executor.New(executor.Options{
		Logger: logging.GetLogger("executor"),
		Stdout: cmd.ErrOrStderr(),
		Stderr: cmd.ErrOrStderr(),
	})
}

func (a *app) ledgerPath() string {
	return a.paths.LedgerPath(a.cfg.Ledger.File)
}

func (a *app) openLedger() (*ledger.FileLedger, error) {
	l, err := ledger.Load(a.deps.FS, a.ledgerPath())
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrLedgerReadRecoverable) {
			log.Warn().Err(err).Msg("Continuing with an empty ledger")
			return l, nil
		}
		return nil, err
	}
	return l, nil
}

func (a *app) devPath() *artifacts.DevelopmentPath {
	return artifacts.NewDevelopmentPath(a.deps.FS, a.cfg.Development.Markers,
		artifacts.DefaultCandidates(a.cfg.Development.Path))
}

func (a *app) remote(x executor.Executor) remote.Source {
	if a.deps.Remote != nil {
		return a.deps.Remote
	}
	token := ""
	if a.cfg.Secrets.TokenEnv != "" {
		token = os.Getenv(a.cfg.Secrets.TokenEnv)
	}
	return remote.NewGitHub(remote.GitHubOptions{
		RawBaseURL:   a.cfg.Hub.RawBaseURL,
		CloneBaseURL: a.cfg.Hub.CloneBaseURL,
		Branch:       a.cfg.Hub.Branch,
		Token:        token,
		Executor:     x,
		FS:           a.deps.FS,
	})
}

func (a *app) secrets(source remote.Source) secrets.Store {
	if a.deps.Secrets != nil {
		return a.deps.Secrets
	}
	return secrets.NewRemoteStore(secrets.Options{
		Source:   source,
		FS:       a.deps.FS,
		Org:      a.cfg.Secrets.Org,
		Repo:     a.cfg.Secrets.Repo,
		File:     a.cfg.Secrets.File,
		CacheDir: a.paths.CacheDir(),
	})
}

// installer wires an Installer to the machine ledger and the real tools
func (a *app) installer(cmd *cobra.Command, observer installer.Observer) (*installer.Installer, error) {
	if err := a.load(); err != nil {
		return nil, err
	}
	l, err := a.openLedger()
	if err != nil {
		return nil, err
	}
	x := a.executor(cmd)
	source := a.remote(x)

	inst, err := installer.New(installer.Options{
		Config:          a.cfg,
		FS:              a.deps.FS,
		Ledger:          l,
		Exec:            x,
		Conda:           conda.NewCLI(x),
		Docker:          docker.NewCLI(x, a.cfg.Run.Quiet),
		Remote:          source,
		Secrets:         a.secrets(source),
		DevPath:         a.devPath(),
		DataDir:         a.paths.DataDir(),
		ScratchRoot:     a.paths.ScratchDir(),
		DisableTracking: a.flags.noTrack,
		Strict:          a.flags.strict,
		LookPath:        a.deps.LookPath,
		Observer:        observer,
	})
	if err != nil {
		return nil, err
	}
	logging.WithRunID(inst.RunID())
	return inst, nil
}

// output resolves --format against the command's stdout
func (a *app) output(cmd *cobra.Command) (ui.Renderer, ui.Format, error) {
	format, err := ui.ParseFormat(a.flags.format)
	if err != nil {
		return nil, format, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
	}
	out := cmd.OutOrStdout()
	format = format.Resolve(out)
	r, err := ui.NewRenderer(format, out)
	return r, format, err
}

// progress reports steps on stderr, except for machine-readable output
func (a *app) progress(cmd *cobra.Command, format ui.Format) installer.Observer {
	if format == ui.FormatJSON {
		return nil
	}
	return ui.NewProgressFor(cmd.ErrOrStderr(), format)
}
