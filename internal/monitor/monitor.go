// Package monitor periodically publishes the locomotive state to a status
// file and, when configured, to InfluxDB. The monitor never reads the
// engine directly; handlers publish immutable snapshots after every command
// and the monitor goroutine consumes the latest one.
package monitor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/railsim/wap7sim/internal/engine"
	"github.com/railsim/wap7sim/internal/influx"
	"github.com/railsim/wap7sim/internal/logging"
	"github.com/railsim/wap7sim/internal/session"
)

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	LogManager *logging.SlogManager
	Session    *session.Context
	Influx     *influx.Manager // nil when telemetry is disabled
	StatusFile string
	Interval   time.Duration
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}

	latest   engine.Snapshot
	latestAt time.Time
	dirty    bool
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Publish records the latest engine snapshot for the monitor goroutine.
func (s *Service) Publish(snap engine.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap
	s.latestAt = time.Now()
	s.dirty = true
}

// Latest returns the most recently published snapshot and whether one has
// been published at all.
func (s *Service) Latest() (engine.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, !s.latestAt.IsZero()
}

// take returns the latest snapshot and clears the dirty flag.
func (s *Service) take() (engine.Snapshot, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return engine.Snapshot{}, time.Time{}, false
	}
	s.dirty = false
	return s.latest, s.latestAt, true
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		statusFile, err := os.Create(s.deps.StatusFile)
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer func() {
			if statusFile != nil {
				statusFile.Close()
			}
		}()

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				snap, at, ok := s.take()
				if !ok {
					continue
				}

				sess := s.deps.Session.Get()

				if statusFile != nil {
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					fmt.Fprintf(statusFile, "%s\n%s\nUpdated: %s\n",
						sess.Name, snap.String(), at.UTC().Format(time.RFC3339))
				}

				if s.deps.Influx != nil {
					point := influx.StatusPoint(sess.Name, snap, at)
					if err := s.deps.Influx.WritePoint(context.Background(), point); err != nil {
						logger.Error("Error writing telemetry point", "error", err)
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
