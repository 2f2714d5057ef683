package ledger

import (
	"sync"

	"github.com/arthur-debert/envboot/pkg/types"
)

// MemoryLedger keeps ids in memory only. It backs tracking-disabled runs
// and tests.
type MemoryLedger struct {
	mu          sync.Mutex
	ids         map[types.TaskID]struct{}
	initialized bool
	records     []types.TaskID
}

// NewMemory returns a MemoryLedger seeded with ids. Seeding marks it initialized.
func NewMemory(ids ...types.TaskID) *MemoryLedger {
	m := &MemoryLedger{ids: make(map[types.TaskID]struct{})}
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
	m.initialized = len(ids) > 0
	return m
}

func (m *MemoryLedger) Contains(id types.TaskID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[id]
	return ok
}

func (m *MemoryLedger) Record(id types.TaskID) error {
	if err := validate(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[id] = struct{}{}
	m.initialized = true
	m.records = append(m.records, id)
	return nil
}

func (m *MemoryLedger) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = make(map[types.TaskID]struct{})
	m.initialized = false
	return nil
}

func (m *MemoryLedger) IDs() []types.TaskID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedIDs(m.ids)
}

func (m *MemoryLedger) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Records returns every Record call in order, duplicates included
func (m *MemoryLedger) Records() []types.TaskID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.TaskID(nil), m.records...)
}
