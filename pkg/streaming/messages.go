// Package streaming defines the message envelope spoken between the
// websocket journal backend and a live viewer server.
package streaming

import (
	"encoding/json"

	"github.com/railsim/wap7sim/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartSession = "start_session"
	TypeEndSession   = "end_session"
	TypeCommand      = "command"
	TypeSnapshot     = "snapshot"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartSessionPayload carries the session identity.
type StartSessionPayload struct {
	Session *core.Session `json:"session"`
}

// EndSessionPayload carries the final state of the run.
type EndSessionPayload struct {
	Final *core.SnapshotRecord `json:"final,omitempty"`
}
