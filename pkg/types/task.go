package types

// TaskID names one installable capability. IDs are opaque; the order in which
// tasks run is decided by the installer, never by the identifier.
type TaskID string

// Task identifiers persisted in the completion ledger. The string values are
// part of the on-disk format and must not change.
const (
	TaskPackageManager  TaskID = "conda"
	TaskVersionControl  TaskID = "git"
	TaskToolkit         TaskID = "rdkit"
	TaskConfig          TaskID = "config"
	TaskCredentials     TaskID = "credentials"
	TaskBaseEnvironment TaskID = "base_conda"
	TaskServerImage     TaskID = "server_docker"
)

// AllTasks lists every task the installer knows, in dependency order.
func AllTasks() []TaskID {
	return []TaskID{
		TaskPackageManager,
		TaskVersionControl,
		TaskToolkit,
		TaskConfig,
		TaskCredentials,
		TaskBaseEnvironment,
		TaskServerImage,
	}
}

// ParseTaskID maps a user supplied name to a known task. Both the ledger
// value ("base_conda") and the hyphenated form ("base-conda") are accepted.
func ParseTaskID(name string) (TaskID, bool) {
	for _, id := range AllTasks() {
		if string(id) == name || id.Slug() == name {
			return id, true
		}
	}
	return "", false
}

// Slug returns the CLI spelling of the task id
func (t TaskID) Slug() string {
	out := []byte(string(t))
	for i, c := range out {
		if c == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}

func (t TaskID) String() string {
	return string(t)
}
