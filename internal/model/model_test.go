package model

import (
	"testing"
	"time"

	"github.com/railsim/wap7sim/pkg/core"

	"github.com/stretchr/testify/assert"
)

func TestFromCommandRecord(t *testing.T) {
	issued := time.Date(2026, 2, 12, 9, 30, 0, 0, time.UTC)
	row := FromCommandRecord(&core.CommandRecord{
		SessionID: 7,
		Seq:       3,
		Input:     "throttle 4",
		Command:   "throttle",
		Args:      []string{"4"},
		Outcome:   core.OutcomeOK,
		IssuedAt:  issued,
	})

	assert.Equal(t, uint(7), row.SessionID)
	assert.Equal(t, uint(3), row.Seq)
	assert.Equal(t, "throttle", row.Command)
	assert.Equal(t, "4", row.Args)
	assert.Equal(t, "ok", row.Outcome)
	assert.Equal(t, issued, row.IssuedAt)
}

func TestFromCommandRecord_MultipleArgs(t *testing.T) {
	row := FromCommandRecord(&core.CommandRecord{
		Command: "pantograph",
		Args:    []string{"up", "now"},
	})
	assert.Equal(t, "up now", row.Args)
}

func TestFromSnapshotRecord(t *testing.T) {
	captured := time.Date(2026, 2, 12, 9, 31, 0, 0, time.UTC)
	row := FromSnapshotRecord(&core.SnapshotRecord{
		SessionID:     7,
		Seq:           4,
		State:         "Running",
		SpeedKmh:      30,
		ThrottleLevel: 3,
		PantographUp:  true,
		VoltageV:      25000,
		DistanceM:     500,
		RunningTimeS:  42,
		CapturedAt:    captured,
	})

	assert.Equal(t, "Running", row.State)
	assert.Equal(t, 30, row.SpeedKmh)
	assert.Equal(t, 3, row.ThrottleLevel)
	assert.True(t, row.PantographUp)
	assert.Equal(t, 25000, row.VoltageV)
	assert.Equal(t, 500, row.DistanceM)
	assert.Equal(t, 42, row.RunningTimeS)
	assert.Equal(t, captured, row.CapturedAt)
}
