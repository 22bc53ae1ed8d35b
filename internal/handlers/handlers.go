// Package handlers implements the command vocabulary of the simulator
// console. Each handler validates its arguments, drives the engine, journals
// the command and the resulting state to the storage backend, and returns
// the console text for the dispatcher to print.
package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/railsim/wap7sim/internal/dispatcher"
	"github.com/railsim/wap7sim/internal/engine"
	"github.com/railsim/wap7sim/internal/logging"
	"github.com/railsim/wap7sim/internal/session"
	"github.com/railsim/wap7sim/internal/storage"
	"github.com/railsim/wap7sim/pkg/core"
)

// Dependencies holds everything the handler service needs.
type Dependencies struct {
	Engine     *engine.Locomotive
	LogManager *logging.SlogManager
	Session    *session.Context
	Version    string

	// Publish, when set, receives the snapshot taken after every command.
	// The monitor consumes these so it never touches the engine directly.
	Publish func(engine.Snapshot)
}

// Service provides the handler methods for the console commands.
type Service struct {
	deps    Dependencies
	backend storage.Backend
}

// NewService creates a new handler service.
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// SetBackend sets the storage backend that receives the session journal.
func (s *Service) SetBackend(b storage.Backend) {
	s.backend = b
}

// RegisterAll registers every console command on the dispatcher.
func (s *Service) RegisterAll(d *dispatcher.Dispatcher) {
	d.Register("pantograph", s.HandlePantograph, dispatcher.Logged())
	d.Register("start", s.HandleStart, dispatcher.Logged())
	d.Register("stop", s.HandleStop, dispatcher.Logged())
	d.Register("throttle", s.HandleThrottle, dispatcher.Logged())
	d.Register("brake", s.HandleBrake, dispatcher.Logged())
	d.Register("emergency", s.HandleEmergency, dispatcher.Logged())
	d.Register("simulate", s.HandleSimulate, dispatcher.Logged())
	d.Register("status", s.HandleStatus)
	d.Register("help", s.HandleHelp)
	d.Register("verbose", s.HandleVerbose)
}

// SnapshotRecord converts an engine snapshot into a journal record for the
// current session.
func (s *Service) SnapshotRecord(snap engine.Snapshot, seq uint) core.SnapshotRecord {
	return core.SnapshotRecord{
		SessionID:     s.deps.Session.Get().ID,
		Seq:           seq,
		State:         snap.State.String(),
		SpeedKmh:      snap.SpeedKmh,
		ThrottleLevel: snap.ThrottleLevel,
		PantographUp:  snap.PantographUp,
		VoltageV:      snap.VoltageV,
		DistanceM:     snap.DistanceM,
		RunningTimeS:  snap.RunningTimeS,
		CapturedAt:    time.Now(),
	}
}

// journal records a command and the post-command state under one sequence
// number. Journal failures are logged, never surfaced to the operator.
func (s *Service) journal(e dispatcher.Event, outcome, detail string) {
	snap := s.deps.Engine.Status()
	if s.deps.Publish != nil {
		s.deps.Publish(snap)
	}
	if s.backend == nil {
		return
	}

	seq := s.deps.Session.NextSeq()
	input := e.Command
	if len(e.Args) > 0 {
		input = e.Command + " " + strings.Join(e.Args, " ")
	}

	logger := s.deps.LogManager.Logger()
	cmd := core.CommandRecord{
		SessionID: s.deps.Session.Get().ID,
		Seq:       seq,
		Input:     input,
		Command:   e.Command,
		Args:      e.Args,
		Outcome:   outcome,
		Detail:    detail,
		IssuedAt:  e.Timestamp,
	}
	if err := s.backend.RecordCommand(&cmd); err != nil {
		logger.Error("Failed to journal command", "command", e.Command, "error", err)
	}

	rec := s.SnapshotRecord(snap, seq)
	if err := s.backend.RecordSnapshot(&rec); err != nil {
		logger.Error("Failed to journal snapshot", "seq", seq, "error", err)
	}
}

func (s *Service) ok(e dispatcher.Event, text string) (any, error) {
	s.journal(e, core.OutcomeOK, "")
	return text, nil
}

func (s *Service) invalid(e dispatcher.Event, text string) (any, error) {
	s.journal(e, core.OutcomeInvalid, text)
	return text, nil
}

func (s *Service) rejected(e dispatcher.Event, err error) (any, error) {
	s.journal(e, core.OutcomeRejected, err.Error())
	return nil, err
}

// HandlePantograph raises or lowers the pantograph. With no argument it
// reports the current position.
func (s *Service) HandlePantograph(e dispatcher.Event) (any, error) {
	if len(e.Args) == 0 {
		position := "DOWN"
		if s.deps.Engine.PantographUp() {
			position = "UP"
		}
		return s.ok(e, "Pantograph is "+position)
	}

	switch e.Args[0] {
	case "up", "raise":
		if err := s.deps.Engine.RaisePantograph(); err != nil {
			return s.rejected(e, err)
		}
		return s.ok(e, "Pantograph raised. Power available.")
	case "down", "lower":
		if err := s.deps.Engine.LowerPantograph(); err != nil {
			return s.rejected(e, err)
		}
		return s.ok(e, "Pantograph lowered. Power disconnected.")
	default:
		return s.invalid(e, "Invalid pantograph command. Use 'up' or 'down'.")
	}
}

// HandleStart starts the engine.
func (s *Service) HandleStart(e dispatcher.Event) (any, error) {
	if err := s.deps.Engine.StartEngine(); err != nil {
		return s.rejected(e, err)
	}
	return s.ok(e, "Engine started successfully.")
}

// HandleStop stops the engine. Stopping is always accepted.
func (s *Service) HandleStop(e dispatcher.Event) (any, error) {
	s.deps.Engine.StopEngine()
	return s.ok(e, "Engine stopped.")
}

// HandleThrottle increases the throttle one notch, or with a numeric
// argument raises it notch by notch to the requested level. Reductions go
// through the brakes.
func (s *Service) HandleThrottle(e dispatcher.Event) (any, error) {
	if len(e.Args) == 0 {
		if err := s.deps.Engine.IncreaseThrottle(); err != nil {
			return s.rejected(e, err)
		}
		return s.ok(e, "Throttle increased. "+s.deps.Engine.Status().Compact())
	}

	target, err := strconv.Atoi(e.Args[0])
	if err != nil {
		return s.invalid(e, "Invalid throttle level. Use a number.")
	}

	current := s.deps.Engine.ThrottleLevel()
	switch {
	case target > current:
		for i := current; i < target; i++ {
			if err := s.deps.Engine.IncreaseThrottle(); err != nil {
				return s.rejected(e, err)
			}
		}
		return s.ok(e, fmt.Sprintf("Throttle set to %d. %s", target, s.deps.Engine.Status().Compact()))
	case target < current:
		return s.invalid(e, "Use brake to reduce throttle/speed.")
	default:
		return s.ok(e, fmt.Sprintf("Throttle already at %d.", target))
	}
}

// HandleBrake applies one standard brake step.
func (s *Service) HandleBrake(e dispatcher.Event) (any, error) {
	s.deps.Engine.ApplyBrakes()
	return s.ok(e, "Brakes applied. "+s.deps.Engine.Status().Compact())
}

// HandleEmergency performs an immediate emergency stop.
func (s *Service) HandleEmergency(e dispatcher.Event) (any, error) {
	s.deps.Engine.EmergencyStop()
	return s.ok(e, "EMERGENCY STOP EXECUTED! Engine halted.")
}

// HandleSimulate advances the movement simulation by the given number of
// seconds.
func (s *Service) HandleSimulate(e dispatcher.Event) (any, error) {
	if len(e.Args) == 0 {
		return s.invalid(e, "Please specify simulation time in seconds.")
	}
	seconds, err := strconv.Atoi(e.Args[0])
	if err != nil {
		return s.invalid(e, "Invalid time value. Use a number in seconds.")
	}
	if seconds <= 0 {
		return s.invalid(e, "Please specify a positive time value.")
	}

	s.deps.Engine.SimulateMovement(seconds)
	return s.ok(e, fmt.Sprintf("Simulated %ds of movement. %s", seconds, s.deps.Engine.Status().Compact()))
}

// HandleStatus reports the engine state. `status compact` gives the short
// form.
func (s *Service) HandleStatus(e dispatcher.Event) (any, error) {
	snap := s.deps.Engine.Status()
	if len(e.Args) > 0 && e.Args[0] == "compact" {
		return s.ok(e, snap.Compact())
	}
	return s.ok(e, snap.String())
}

// HandleVerbose toggles debug logging at runtime.
func (s *Service) HandleVerbose(e dispatcher.Event) (any, error) {
	verbose := !s.deps.LogManager.Verbose()
	s.deps.LogManager.SetVerbose(verbose)
	if verbose {
		return s.ok(e, "Verbose logging enabled.")
	}
	return s.ok(e, "Verbose logging disabled.")
}

// HandleHelp prints the command menu.
func (s *Service) HandleHelp(e dispatcher.Event) (any, error) {
	return s.ok(e, helpText)
}

const helpText = `╔══════════════════════════════════════════════════╗
║                 AVAILABLE COMMANDS               ║
╠══════════════════════════════════════════════════╣
║ BASIC OPERATIONS:                                ║
║ - pantograph up   : Raise pantograph             ║
║ - pantograph down : Lower pantograph             ║
║ - start           : Start the engine             ║
║ - stop            : Stop the engine              ║
║                                                  ║
║ MOVEMENT CONTROLS:                               ║
║ - throttle        : Increase throttle by 1       ║
║ - throttle <n>    : Set throttle to level n      ║
║ - brake           : Apply brakes                 ║
║ - emergency       : Emergency stop               ║
║                                                  ║
║ SIMULATION:                                      ║
║ - simulate <n>    : Simulate n seconds of travel ║
║ - status          : Display engine status        ║
║                                                  ║
║ SYSTEM:                                          ║
║ - verbose         : Toggle verbose logging       ║
║ - help            : Show this help menu          ║
║ - exit            : Quit simulation              ║
╚══════════════════════════════════════════════════╝`
