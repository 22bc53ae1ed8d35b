// internal/storage/storage.go
package storage

import "github.com/railsim/wap7sim/pkg/core"

// Backend is the interface all journal implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(s *core.Session) error
	EndSession(final *core.SnapshotRecord) error

	// Journal recording
	RecordCommand(c *core.CommandRecord) error
	RecordSnapshot(s *core.SnapshotRecord) error
}

// Exportable is an optional interface for backends that produce a session
// file on disk at end of session.
type Exportable interface {
	GetExportedFilePath() string
}
