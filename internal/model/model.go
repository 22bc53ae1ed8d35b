// Package model defines the database schema for the session journal.
package model

import (
	"strings"
	"time"

	"github.com/railsim/wap7sim/pkg/core"
)

// DatabaseModels is a list of all the structs exported here which represent
// tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&CommandLog{},
	&StateSnapshot{},
}

// Session is one simulator run.
type Session struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	Name      string     `json:"name" gorm:"size:127"`
	Version   string     `json:"version" gorm:"size:32"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
}

// CommandLog is one journaled operator command.
type CommandLog struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	SessionID uint      `json:"sessionId" gorm:"index:idx_commandlog_session_id"`
	Session   Session   `json:"-" gorm:"foreignkey:SessionID"`
	Seq       uint      `json:"seq"`
	Input     string    `json:"input" gorm:"size:255"`
	Command   string    `json:"command" gorm:"size:32;index:idx_commandlog_command"`
	Args      string    `json:"args" gorm:"size:255"`
	Outcome   string    `json:"outcome" gorm:"size:16"`
	Detail    string    `json:"detail" gorm:"size:255"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// StateSnapshot is the locomotive state captured after a command.
type StateSnapshot struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	SessionID     uint      `json:"sessionId" gorm:"index:idx_statesnapshot_session_id"`
	Session       Session   `json:"-" gorm:"foreignkey:SessionID"`
	Seq           uint      `json:"seq"`
	State         string    `json:"state" gorm:"size:16"`
	SpeedKmh      int       `json:"speedKmh"`
	ThrottleLevel int       `json:"throttleLevel"`
	PantographUp  bool      `json:"pantographUp"`
	VoltageV      int       `json:"voltageV"`
	DistanceM     int       `json:"distanceM"`
	RunningTimeS  int       `json:"runningTimeS"`
	CapturedAt    time.Time `json:"capturedAt"`
}

// FromSession converts a wire-level session to its row form.
func FromSession(s *core.Session) Session {
	return Session{
		ID:        s.ID,
		Name:      s.Name,
		Version:   s.Version,
		StartedAt: s.StartedAt,
	}
}

// FromCommandRecord converts a wire-level command record to its row form.
func FromCommandRecord(r *core.CommandRecord) CommandLog {
	return CommandLog{
		SessionID: r.SessionID,
		Seq:       r.Seq,
		Input:     r.Input,
		Command:   r.Command,
		Args:      strings.Join(r.Args, " "),
		Outcome:   r.Outcome,
		Detail:    r.Detail,
		IssuedAt:  r.IssuedAt,
	}
}

// FromSnapshotRecord converts a wire-level snapshot to its row form.
func FromSnapshotRecord(r *core.SnapshotRecord) StateSnapshot {
	return StateSnapshot{
		SessionID:     r.SessionID,
		Seq:           r.Seq,
		State:         r.State,
		SpeedKmh:      r.SpeedKmh,
		ThrottleLevel: r.ThrottleLevel,
		PantographUp:  r.PantographUp,
		VoltageV:      r.VoltageV,
		DistanceM:     r.DistanceM,
		RunningTimeS:  r.RunningTimeS,
		CapturedAt:    r.CapturedAt,
	}
}
