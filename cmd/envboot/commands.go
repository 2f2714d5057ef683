package envboot

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/envboot/internal/version"
	"github.com/arthur-debert/envboot/pkg/artifacts"
	"github.com/arthur-debert/envboot/pkg/cobrax/topics"
	"github.com/arthur-debert/envboot/pkg/config"
	"github.com/arthur-debert/envboot/pkg/envbuilder"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/imagebuilder"
	"github.com/arthur-debert/envboot/pkg/types"
	"github.com/arthur-debert/envboot/pkg/ui"
)

var errNoCommand = stderrors.New(MsgErrNoCommand)

// renderResults prints a report and turns failed steps into an error, so the
// process exits non-zero
func renderResults(r ui.Renderer, report types.Report) error {
	if err := r.RenderReport(report); err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf(MsgErrStepsFailed, len(failed))
	}
	return nil
}

func newBootstrapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "bootstrap",
		Short:   MsgBootstrapShort,
		Long:    MsgBootstrapLong,
		Example: MsgBootstrapExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, format, err := a.output(cmd)
			if err != nil {
				return err
			}
			inst, err := a.installer(cmd, a.progress(cmd, format))
			if err != nil {
				return err
			}
			if _, err := inst.Prepare(cmd.Context()); err != nil {
				log.Warn().Err(err).Msg("Artifacts not fully resolved")
			}
			return renderResults(r, inst.CheckDependencies(cmd.Context()))
		},
	}
}

func taskCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, id := range types.AllTasks() {
		names = append(names, id.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func parseTask(name string) (types.TaskID, error) {
	id, ok := types.ParseTaskID(name)
	if !ok {
		var known []string
		for _, t := range types.AllTasks() {
			known = append(known, t.String())
		}
		return "", errors.Newf(errors.ErrInvalidInput, MsgErrUnknownTask, name, strings.Join(known, ", "))
	}
	return id, nil
}

func newStepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "step <task>",
		Short:             MsgStepShort,
		Long:              MsgStepLong,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTask(args[0])
			if err != nil {
				return err
			}
			r, format, err := a.output(cmd)
			if err != nil {
				return err
			}
			inst, err := a.installer(cmd, a.progress(cmd, format))
			if err != nil {
				return err
			}
			if _, err := inst.RunTask(cmd.Context(), id); err != nil {
				return err
			}
			return renderResults(r, inst.Report())
		},
	}
}

func newBaseInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "base-install",
		Short:   MsgBaseInstallShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, format, err := a.output(cmd)
			if err != nil {
				return err
			}
			inst, err := a.installer(cmd, a.progress(cmd, format))
			if err != nil {
				return err
			}
			inst.BaseInstall(cmd.Context())
			return renderResults(r, inst.Report())
		},
	}
}

func describeResolved(res []artifacts.Resolved) []string {
	items := make([]string, 0, len(res))
	for _, r := range res {
		items = append(items, fmt.Sprintf(MsgResolvedFormat, r.Name, r.Destination, r.Origin))
	}
	return items
}

func newPrepareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "prepare",
		Short:   MsgPrepareShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.output(cmd)
			if err != nil {
				return err
			}
			inst, err := a.installer(cmd, nil)
			if err != nil {
				return err
			}
			resolved, prepErr := inst.Prepare(cmd.Context())
			if err := r.RenderList(MsgTitleResolved, describeResolved(resolved)); err != nil {
				return err
			}
			return prepErr
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "resolve <config|credentials>",
		Short:     MsgResolveShort,
		GroupID:   "core",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"config", "credentials"},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.output(cmd)
			if err != nil {
				return err
			}
			inst, err := a.installer(cmd, nil)
			if err != nil {
				return err
			}
			name := a.cfg.Artifacts.Config
			if args[0] == "credentials" {
				name = a.cfg.Artifacts.Credentials
			}
			for _, art := range inst.Artifacts() {
				if art.Name != name {
					continue
				}
				res, err := inst.Resolver().ResolveArtifact(cmd.Context(), art)
				if err != nil {
					return err
				}
				return r.RenderMessage(describeResolved([]artifacts.Resolved{res})[0])
			}
			return errors.Newf(errors.ErrNotFound, "no artifact named %s", name)
		},
	}
}

func newLedgerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ledger",
		Short:   MsgLedgerShort,
		GroupID: "state",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgLedgerListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.output(cmd)
			if err != nil {
				return err
			}
			if err := a.load(); err != nil {
				return err
			}
			l, err := a.openLedger()
			if err != nil {
				return err
			}
			ids := l.IDs()
			if len(ids) == 0 {
				return r.RenderMessage(MsgNoTasksRecorded)
			}
			items := make([]string, len(ids))
			for i, id := range ids {
				items[i] = id.String()
			}
			return r.RenderList(MsgTitleLedger, items)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: MsgLedgerPathShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.output(cmd)
			if err != nil {
				return err
			}
			if err := a.load(); err != nil {
				return err
			}
			path := a.ledgerPath()
			info, err := a.deps.FS.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return r.RenderMessage(fmt.Sprintf(MsgLedgerNotPresent, path))
				}
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
			}
			return r.RenderMessage(fmt.Sprintf(MsgLedgerFileFormat, path, humanize.Time(info.ModTime())))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: MsgLedgerClearShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.output(cmd)
			if err != nil {
				return err
			}
			if err := a.load(); err != nil {
				return err
			}
			l, err := a.openLedger()
			if err != nil {
				return err
			}
			if err := l.Clear(); err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgLedgerCleared, a.ledgerPath()))
		},
	})

	return cmd
}

func newDevPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "devpath",
		Short:   MsgDevPathShort,
		GroupID: "state",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.output(cmd)
			if err != nil {
				return err
			}
			if err := a.load(); err != nil {
				return err
			}
			path, ok := a.devPath().Get()
			if !ok {
				return r.RenderMessage(MsgNoDevPath)
			}
			return r.RenderMessage(fmt.Sprintf(MsgDevPathFormat, path))
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "state",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	var defaults bool
	show := &cobra.Command{
		Use:   "show",
		Short: MsgConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if !defaults {
				if err := a.load(); err != nil {
					return err
				}
				cfg = a.cfg
			}
			out, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	show.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	cmd.AddCommand(show)
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render",
		Short:   MsgRenderShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	var basePrefix, currentPrefix, repo string
	script := &cobra.Command{
		Use:   "script",
		Short: MsgScriptShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := a.installer(cmd, nil)
			if err != nil {
				return err
			}
			repoPath, err := filepath.Abs(repo)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", repo)
			}

			var p envbuilder.Params
			if basePrefix != "" {
				p = envbuilder.Params{
					RepoPath:        repoPath,
					EnvName:         a.cfg.BaseEnvName(),
					PythonVersion:   a.cfg.Versions.Python,
					SecondaryEntry:  a.cfg.Run.SecondaryEntry,
					BasePrefix:      basePrefix,
					DeactivateFirst: currentPrefix != "",
					CurrentPrefix:   currentPrefix,
				}
			} else if p, err = inst.EnvParams(cmd.Context(), repoPath); err != nil {
				return err
			}

			out, err := envbuilder.Render(p)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	script.Flags().StringVar(&basePrefix, "base-prefix", "", MsgFlagBasePrefix)
	script.Flags().StringVar(&currentPrefix, "current-prefix", "", MsgFlagCurrentPrefix)
	script.Flags().StringVar(&repo, "repo", ".", MsgFlagRepo)

	dockerfile := &cobra.Command{
		Use:   "dockerfile",
		Short: MsgDockerfileShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := a.installer(cmd, nil)
			if err != nil {
				return err
			}
			out, err := imagebuilder.Render(inst.ImageParams())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.AddCommand(script, dockerfile)
	return cmd
}

func newTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tasks",
		Short:   MsgTasksShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.output(cmd)
			if err != nil {
				return err
			}
			var items []string
			for _, id := range types.AllTasks() {
				items = append(items, id.String())
			}
			return r.RenderList(MsgTitleTasks, items)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "ENVBOOT",
				Section: "1",
				Source:  "envboot " + version.Version,
				Manual:  "envboot manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

func newTopicsCmd(tm *topics.TopicManager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tm.WriteList(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}
