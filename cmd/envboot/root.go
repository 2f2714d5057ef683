package envboot

import (
	"embed"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/envboot/internal/version"
	"github.com/arthur-debert/envboot/pkg/cobrax/topics"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/ui"
)

//go:embed topics/*.md
var topicFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(deps{})
}

func newRootCmd(d deps) *cobra.Command {
	initTemplateFormatting()
	a := newApp(d)

	rootCmd := &cobra.Command{
		Use:     "envboot",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(a.flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errNoCommand
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&a.flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&a.flags.configFile, "config", "", MsgFlagConfig)
	pf.BoolVar(&a.flags.noTrack, "no-track", false, MsgFlagNoTrack)
	pf.BoolVar(&a.flags.strict, "strict", false, MsgFlagStrict)
	pf.StringVar(&a.flags.format, "format", "auto", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, f := range ui.Formats() {
			names = append(names, f.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "state", Title: "STATE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newBootstrapCmd(a))
	rootCmd.AddCommand(newStepCmd(a))
	rootCmd.AddCommand(newBaseInstallCmd(a))
	rootCmd.AddCommand(newPrepareCmd(a))
	rootCmd.AddCommand(newResolveCmd(a))
	rootCmd.AddCommand(newLedgerCmd(a))
	rootCmd.AddCommand(newDevPathCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newTasksCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	source, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return rootCmd
	}
	renderer := topics.PlainRenderer
	if stdoutIsTerminal() {
		renderer = topics.NewMarkdownRenderer("auto", 100)
	}
	tm, err := topics.Initialize(rootCmd, source, topics.Options{
		Extensions: []string{".md"},
		Renderer:   renderer,
	})
	if err != nil {
		log.Debug().Err(err).Msg("Help topics unavailable")
		return rootCmd
	}
	rootCmd.AddCommand(newTopicsCmd(tm))

	return rootCmd
}
