// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/railsim/wap7sim/internal/config"
	"github.com/railsim/wap7sim/pkg/core"
)

// Backend stores the session journal in memory and exports it to JSON at
// end of session.
type Backend struct {
	cfg     config.MemoryConfig
	session *core.Session

	commands  []core.CommandRecord
	snapshots []core.SnapshotRecord
	final     *core.SnapshotRecord

	exportedPath string
	mu           sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s.ID = 1
	b.session = s
	b.commands = nil
	b.snapshots = nil
	b.final = nil
	b.exportedPath = ""

	return nil
}

// EndSession finalizes and exports the session journal
func (b *Backend) EndSession(final *core.SnapshotRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.final = final
	return b.exportJSON()
}

// RecordCommand appends a command to the journal
func (b *Backend) RecordCommand(c *core.CommandRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.commands = append(b.commands, *c)
	return nil
}

// RecordSnapshot appends a state snapshot to the journal
func (b *Backend) RecordSnapshot(s *core.SnapshotRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.snapshots = append(b.snapshots, *s)
	return nil
}

// GetExportedFilePath returns the path of the exported session file, or ""
// if no export has happened yet.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportedPath
}

// CommandCount returns the number of journaled commands.
func (b *Backend) CommandCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.commands)
}
