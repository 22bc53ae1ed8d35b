// Package websocket streams the session journal over a WebSocket to a live
// viewer. It implements storage.Backend but not storage.Exportable.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/railsim/wap7sim/pkg/core"
	"github.com/railsim/wap7sim/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend streams journal records over WebSocket.
type Backend struct {
	conn *connection
	cfg  Config
}

// New creates a new WebSocket journal backend.
func New(cfg Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it to the
// write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// StartSession sends the session identity and waits for the server ack.
func (b *Backend) StartSession(s *core.Session) error {
	s.ID = 1
	data, err := marshalEnvelope(streaming.TypeStartSession, streaming.StartSessionPayload{Session: s})
	if err != nil {
		return err
	}

	// Cache for reconnect replay.
	b.conn.mu.Lock()
	b.conn.cachedStartMsg = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeStartSession, ackTimeout)
}

// EndSession sends the final snapshot and waits for the server ack so the
// viewer has the complete run before the process exits.
func (b *Backend) EndSession(final *core.SnapshotRecord) error {
	data, err := marshalEnvelope(streaming.TypeEndSession, streaming.EndSessionPayload{Final: final})
	if err != nil {
		return err
	}
	return b.conn.sendAndWait(data, streaming.TypeEndSession, ackTimeout)
}

// RecordCommand streams one journaled command.
func (b *Backend) RecordCommand(c *core.CommandRecord) error {
	return b.sendEnvelope(streaming.TypeCommand, c)
}

// RecordSnapshot streams one state snapshot.
func (b *Backend) RecordSnapshot(s *core.SnapshotRecord) error {
	return b.sendEnvelope(streaming.TypeSnapshot, s)
}
