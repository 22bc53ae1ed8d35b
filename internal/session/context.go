// Package session tracks the active recording session: its identity and the
// running sequence number stamped onto journal records.
package session

import (
	"sync"
	"time"

	"github.com/railsim/wap7sim/pkg/core"
)

// Context holds the current session state. Safe for concurrent reads from
// the monitor goroutine.
type Context struct {
	mu      sync.RWMutex
	session *core.Session
	seq     uint
}

// NewContext creates a Context with no session loaded.
func NewContext() *Context {
	return &Context{
		session: &core.Session{Name: "No session loaded"},
	}
}

// Get returns the current session.
func (c *Context) Get() *core.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Begin installs a new session and resets the sequence counter.
func (c *Context) Begin(name, version string, startedAt time.Time) *core.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &core.Session{
		Name:      name,
		Version:   version,
		StartedAt: startedAt,
	}
	c.seq = 0
	return c.session
}

// NextSeq returns the next journal sequence number.
func (c *Context) NextSeq() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Seq returns the last issued sequence number.
func (c *Context) Seq() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq
}
