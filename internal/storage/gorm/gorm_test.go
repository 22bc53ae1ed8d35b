package gormstorage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railsim/wap7sim/internal/database"
	"github.com/railsim/wap7sim/internal/model"
	"github.com/railsim/wap7sim/pkg/core"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	db, err := database.GetSqliteDB(zerolog.Nop(), t.TempDir()+"/journal.db")
	require.NoError(t, err)

	b := New(Dependencies{DB: db, FlushThreshold: 4})
	require.NoError(t, b.Init())
	return b
}

func TestBackend_StartSessionAssignsID(t *testing.T) {
	b := newTestBackend(t)

	s := &core.Session{Name: "Test Run", Version: "1.0.0", StartedAt: time.Now()}
	require.NoError(t, b.StartSession(s))
	assert.NotZero(t, s.ID)
}

func TestBackend_BatchedWrites(t *testing.T) {
	b := newTestBackend(t)

	s := &core.Session{Name: "Test Run", StartedAt: time.Now()}
	require.NoError(t, b.StartSession(s))

	// Below the threshold nothing is written yet.
	for seq := uint(1); seq <= 2; seq++ {
		require.NoError(t, b.RecordCommand(&core.CommandRecord{
			SessionID: s.ID, Seq: seq, Command: "throttle", Outcome: core.OutcomeOK,
		}))
	}
	var count int64
	b.db.Model(&model.CommandLog{}).Count(&count)
	assert.Zero(t, count)

	// Crossing the threshold forces a flush.
	for seq := uint(3); seq <= 4; seq++ {
		require.NoError(t, b.RecordCommand(&core.CommandRecord{
			SessionID: s.ID, Seq: seq, Command: "brake",
		}))
	}
	b.db.Model(&model.CommandLog{}).Count(&count)
	assert.Equal(t, int64(4), count)
}

func TestBackend_EndSessionFlushesAndStampsEnd(t *testing.T) {
	b := newTestBackend(t)

	s := &core.Session{Name: "Test Run", StartedAt: time.Now()}
	require.NoError(t, b.StartSession(s))

	require.NoError(t, b.RecordCommand(&core.CommandRecord{SessionID: s.ID, Seq: 1, Command: "start"}))
	require.NoError(t, b.RecordSnapshot(&core.SnapshotRecord{SessionID: s.ID, Seq: 1, State: "Idle"}))

	require.NoError(t, b.EndSession(&core.SnapshotRecord{SessionID: s.ID, Seq: 2, State: "Off", DistanceM: 500}))

	var cmdCount, snapCount int64
	b.db.Model(&model.CommandLog{}).Count(&cmdCount)
	b.db.Model(&model.StateSnapshot{}).Count(&snapCount)
	assert.Equal(t, int64(1), cmdCount)
	assert.Equal(t, int64(2), snapCount)

	var row model.Session
	require.NoError(t, b.db.First(&row, s.ID).Error)
	assert.NotNil(t, row.EndedAt)

	var final model.StateSnapshot
	require.NoError(t, b.db.Where("seq = ?", 2).First(&final).Error)
	assert.Equal(t, "Off", final.State)
	assert.Equal(t, 500, final.DistanceM)
}

func TestBackend_EndSessionWithoutStart(t *testing.T) {
	b := newTestBackend(t)
	assert.Error(t, b.EndSession(nil))
}
