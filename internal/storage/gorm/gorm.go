// Package gormstorage implements the storage.Backend interface on top of a
// GORM database handle. Journal rows are staged in queues and written in
// batches to keep per-command latency flat; SQLite and Postgres backends
// wrap this one via composition.
package gormstorage

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/railsim/wap7sim/internal/database"
	"github.com/railsim/wap7sim/internal/logging"
	"github.com/railsim/wap7sim/internal/model"
	"github.com/railsim/wap7sim/internal/queue"
	"github.com/railsim/wap7sim/pkg/core"
)

// defaultFlushThreshold is the queue depth at which a write is forced.
const defaultFlushThreshold = 64

// Dependencies holds everything the backend needs.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager

	// FlushThreshold overrides the batch size when > 0.
	FlushThreshold int
}

// Backend journals sessions to a relational database.
type Backend struct {
	db        *gorm.DB
	log       *logging.SlogManager
	threshold int

	session   *model.Session
	commands  *queue.Queue[model.CommandLog]
	snapshots *queue.Queue[model.StateSnapshot]

	lastWrite time.Duration
}

// New creates a new GORM-backed journal.
func New(deps Dependencies) *Backend {
	threshold := deps.FlushThreshold
	if threshold <= 0 {
		threshold = defaultFlushThreshold
	}
	return &Backend{
		db:        deps.DB,
		log:       deps.LogManager,
		threshold: threshold,
		commands:  queue.New[model.CommandLog](),
		snapshots: queue.New[model.StateSnapshot](),
	}
}

// Init migrates the journal schema.
func (b *Backend) Init() error {
	return database.Migrate(b.db)
}

// Close flushes any staged rows.
func (b *Backend) Close() error {
	return b.Flush()
}

// StartSession creates the session row and assigns its ID back to s.
func (b *Backend) StartSession(s *core.Session) error {
	row := model.FromSession(s)
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create session row: %w", err)
	}
	s.ID = row.ID
	b.session = &row
	return nil
}

// EndSession flushes the journal and stamps the session's end time.
func (b *Backend) EndSession(final *core.SnapshotRecord) error {
	if b.session == nil {
		return fmt.Errorf("no session started")
	}
	if final != nil {
		if err := b.RecordSnapshot(final); err != nil {
			return err
		}
	}
	if err := b.Flush(); err != nil {
		return err
	}

	now := time.Now()
	b.session.EndedAt = &now
	if err := b.db.Save(b.session).Error; err != nil {
		return fmt.Errorf("failed to finalize session row: %w", err)
	}
	return nil
}

// RecordCommand stages a command row, flushing when the batch is full.
func (b *Backend) RecordCommand(c *core.CommandRecord) error {
	b.commands.Push(model.FromCommandRecord(c))
	return b.maybeFlush()
}

// RecordSnapshot stages a snapshot row, flushing when the batch is full.
func (b *Backend) RecordSnapshot(s *core.SnapshotRecord) error {
	b.snapshots.Push(model.FromSnapshotRecord(s))
	return b.maybeFlush()
}

func (b *Backend) maybeFlush() error {
	if b.commands.Len()+b.snapshots.Len() < b.threshold {
		return nil
	}
	return b.Flush()
}

// Flush writes all staged rows in two batched inserts.
func (b *Backend) Flush() error {
	start := time.Now()

	if rows := b.commands.Drain(); len(rows) > 0 {
		if err := b.db.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to write command rows: %w", err)
		}
	}
	if rows := b.snapshots.Drain(); len(rows) > 0 {
		if err := b.db.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to write snapshot rows: %w", err)
		}
	}

	b.lastWrite = time.Since(start)
	if b.log != nil {
		b.log.Logger().Debug("Journal flushed", "duration", b.lastWrite)
	}
	return nil
}

// GetLastDBWriteDuration returns the duration of the last write cycle.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	return b.lastWrite
}
