// Package core defines the wire-level record types shared by the storage
// backends: one Session per simulator run, plus the command journal and the
// state snapshots taken after each command.
package core

import "time"

// Session identifies one simulator run.
type Session struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	StartedAt time.Time `json:"startedAt"`
}

// Command outcomes.
const (
	OutcomeOK       = "ok"       // operation succeeded
	OutcomeRejected = "rejected" // engine precondition failure
	OutcomeInvalid  = "invalid"  // unparseable input, never reached the engine
)

// CommandRecord is one journaled operator command.
type CommandRecord struct {
	SessionID uint      `json:"sessionId"`
	Seq       uint      `json:"seq"`
	Input     string    `json:"input"`
	Command   string    `json:"command"`
	Args      []string  `json:"args,omitempty"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// UploadMetadata describes an exported journal for the viewer upload.
type UploadMetadata struct {
	SessionName  string `json:"sessionName"`
	Version      string `json:"version"`
	RunningTimeS int    `json:"runningTimeS"`
	DistanceM    int    `json:"distanceM"`
}

// SnapshotRecord is the locomotive state captured after a command.
type SnapshotRecord struct {
	SessionID     uint      `json:"sessionId"`
	Seq           uint      `json:"seq"`
	State         string    `json:"state"`
	SpeedKmh      int       `json:"speedKmh"`
	ThrottleLevel int       `json:"throttleLevel"`
	PantographUp  bool      `json:"pantographUp"`
	VoltageV      int       `json:"voltageV"`
	DistanceM     int       `json:"distanceM"`
	RunningTimeS  int       `json:"runningTimeS"`
	CapturedAt    time.Time `json:"capturedAt"`
}
