package envboot

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Bootstrap a machine for the orchestrated package"
	MsgBootstrapShort   = "Run every bootstrap step"
	MsgStepShort        = "Run a single step through the ledger"
	MsgBaseInstallShort = "Install the toolkit inside the active environment, ignoring the ledger"
	MsgPrepareShort     = "Resolve the config and credentials artifacts"
	MsgResolveShort     = "Resolve one artifact into the data directory"
	MsgLedgerShort      = "Inspect or reset the completion ledger"
	MsgLedgerListShort  = "List recorded tasks"
	MsgLedgerPathShort  = "Print the ledger location"
	MsgLedgerClearShort = "Forget every recorded task"
	MsgDevPathShort     = "Show the detected development checkout"
	MsgConfigShort      = "Show the effective configuration"
	MsgRenderShort      = "Print a generated build file"
	MsgScriptShort      = "Print the base environment build script"
	MsgDockerfileShort  = "Print the server image Dockerfile"
	MsgTasksShort       = "List known tasks"
	MsgVersionShort     = "Print version information"
	MsgCompletionShort  = "Generate shell completion script"
	MsgManShort         = "Generate the man page"
	MsgTopicsShort      = "Display available documentation topics"

	// Status messages
	MsgNoTasksRecorded  = "No tasks recorded."
	MsgLedgerCleared    = "Ledger cleared: %s"
	MsgLedgerNotPresent = "No ledger at %s"
	MsgLedgerFileFormat = "%s (modified %s)"
	MsgNoDevPath        = "No development checkout found."
	MsgDevPathFormat    = "Development checkout: %s"
	MsgResolvedFormat   = "%s -> %s (%s)"
	MsgVersionFormat    = "envboot version %s\n  commit: %s\n  built:  %s\n"

	// Titles
	MsgTitleLedger   = "Recorded tasks"
	MsgTitleTasks    = "Tasks"
	MsgTitleResolved = "Artifacts"

	// Error messages
	MsgErrInitPaths   = "failed to initialize paths: %w"
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrUnknownTask = "unknown task %q, known tasks: %s"
	MsgErrStepsFailed = "%d step(s) failed"
	MsgErrNoCommand   = "no command specified"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Config file (default $XDG_CONFIG_HOME/envboot/config.toml)"
	MsgFlagNoTrack       = "Ignore the completion ledger for this run"
	MsgFlagStrict        = "Record a task only after it succeeds"
	MsgFlagFormat        = "Output format: auto, terminal, text or json"
	MsgFlagDefaults      = "Show the built-in defaults instead of the effective configuration"
	MsgFlagBasePrefix    = "Base conda installation prefix (default: ask conda)"
	MsgFlagCurrentPrefix = "Prefix of the active environment to deactivate first"
	MsgFlagRepo          = "Repository checkout the script builds from"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/bootstrap-long.txt
	msgBootstrapLongRaw string
	MsgBootstrapLong    = strings.TrimSpace(msgBootstrapLongRaw)

	//go:embed msgs/bootstrap-example.txt
	msgBootstrapExampleRaw string
	MsgBootstrapExample    = strings.TrimRight(msgBootstrapExampleRaw, "\n")

	//go:embed msgs/step-long.txt
	msgStepLongRaw string
	MsgStepLong    = strings.TrimSpace(msgStepLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	MsgUsageTemplate string
)
