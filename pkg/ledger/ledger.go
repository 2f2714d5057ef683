package ledger

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/filesystem"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/types"
)

// Ledger is the completion ledger used by the step runner
type Ledger interface {
	Contains(id types.TaskID) bool
	Record(id types.TaskID) error
	Clear() error
	IDs() []types.TaskID
	Initialized() bool
}

type state int

const (
	stateUninitialized state = iota // no ledger file yet
	stateEmpty                      // file exists, no ids
	stateLoaded                     // file exists with ids
)

// FileLedger is a Ledger backed by a file
type FileLedger struct {
	mu    sync.Mutex
	fs    types.FS
	path  string
	ids   map[types.TaskID]struct{}
	state state
}

// Load reads the ledger at path. A missing file yields an uninitialized
// ledger. Any other read failure yields an uninitialized, usable ledger
// together with an ErrLedgerReadRecoverable error the caller should report.
func Load(fs types.FS, path string) (*FileLedger, error) {
	l := &FileLedger{
		fs:   fs,
		path: path,
		ids:  make(map[types.TaskID]struct{}),
	}
	logger := logging.GetLogger("ledger").With().Str("path", path).Logger()

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Msg("No ledger file yet")
			return l, nil
		}
		logger.Warn().Err(err).Msg("Ledger unreadable, treating as empty")
		return l, errors.Wrapf(err, errors.ErrLedgerReadRecoverable, "cannot read ledger %s, treating it as empty", path).
			WithDetail("path", path)
	}

	for _, id := range parse(data) {
		l.ids[id] = struct{}{}
	}
	l.state = stateEmpty
	if len(l.ids) > 0 {
		l.state = stateLoaded
	}
	logger.Debug().Int("entries", len(l.ids)).Msg("Ledger loaded")
	return l, nil
}

// Path returns the ledger file location
func (l *FileLedger) Path() string {
	return l.path
}

// Contains reports whether id was recorded
func (l *FileLedger) Contains(id types.TaskID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[id]
	return ok
}

// Record adds id and rewrites the file. Recording an id that is already
// present on an initialized ledger does not touch the file.
func (l *FileLedger) Record(id types.TaskID) error {
	if err := validate(id); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[id]; ok && l.state != stateUninitialized {
		return nil
	}

	l.ids[id] = struct{}{}
	if err := filesystem.WriteFileAtomic(l.fs, l.path, format(l.sortedLocked()), 0644); err != nil {
		delete(l.ids, id)
		return errors.Wrapf(err, errors.ErrLedgerWrite, "failed to record %s in ledger", id).
			WithDetail("path", l.path).
			WithDetail("task", string(id))
	}
	l.state = stateLoaded

	logger := logging.GetLogger("ledger")
	logger.Debug().Str("task", string(id)).Msg("Task recorded")
	return nil
}

// Clear removes the ledger file and forgets every id
func (l *FileLedger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fs.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrLedgerWrite, "failed to remove ledger %s", l.path)
	}
	l.ids = make(map[types.TaskID]struct{})
	l.state = stateUninitialized
	return nil
}

// IDs returns the recorded ids in ascending order
func (l *FileLedger) IDs() []types.TaskID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sortedLocked()
}

// Initialized reports whether the ledger file exists
func (l *FileLedger) Initialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state != stateUninitialized
}

func (l *FileLedger) sortedLocked() []types.TaskID {
	return sortedIDs(l.ids)
}

func sortedIDs(set map[types.TaskID]struct{}) []types.TaskID {
	ids := make([]types.TaskID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func validate(id types.TaskID) error {
	if id == "" {
		return errors.New(errors.ErrInvalidInput, "task id is empty")
	}
	if strings.ContainsAny(string(id), "\r\n") {
		return errors.Newf(errors.ErrInvalidInput, "task id %q contains a line break", string(id))
	}
	// parse trims line ends, so such an id would not survive a reload
	if strings.TrimSpace(string(id)) != string(id) {
		return errors.Newf(errors.ErrInvalidInput, "task id %q has leading or trailing whitespace", string(id))
	}
	return nil
}

// parse reads one id per line, ignoring trailing whitespace and blank lines
func parse(data []byte) []types.TaskID {
	var ids []types.TaskID
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		ids = append(ids, types.TaskID(line))
	}
	return ids
}

// format writes ids one per line with a trailing newline
func format(ids []types.TaskID) []byte {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(string(id))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
