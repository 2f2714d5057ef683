// Package paths resolves the directories envboot uses.
//
// The data directory is the orchestrator root: it holds the completion
// ledger and the linked or fetched configuration artifacts. Each XDG base
// can be overridden with an ENVBOOT_*_DIR environment variable.
package paths
