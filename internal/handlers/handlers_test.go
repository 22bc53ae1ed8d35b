package handlers

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railsim/wap7sim/internal/dispatcher"
	"github.com/railsim/wap7sim/internal/engine"
	"github.com/railsim/wap7sim/internal/logging"
	"github.com/railsim/wap7sim/internal/session"
	"github.com/railsim/wap7sim/pkg/core"
)

// mockBackend captures journal records in memory.
type mockBackend struct {
	commands  []core.CommandRecord
	snapshots []core.SnapshotRecord
}

func (m *mockBackend) Init() error  { return nil }
func (m *mockBackend) Close() error { return nil }
func (m *mockBackend) StartSession(s *core.Session) error {
	s.ID = 1
	return nil
}
func (m *mockBackend) EndSession(final *core.SnapshotRecord) error { return nil }
func (m *mockBackend) RecordCommand(c *core.CommandRecord) error {
	m.commands = append(m.commands, *c)
	return nil
}
func (m *mockBackend) RecordSnapshot(s *core.SnapshotRecord) error {
	m.snapshots = append(m.snapshots, *s)
	return nil
}

func newTestService(t *testing.T) (*Service, *mockBackend) {
	t.Helper()

	ctx := session.NewContext()
	ctx.Begin("test run", "dev", time.Now())

	svc := NewService(Dependencies{
		Engine:     engine.New(),
		LogManager: logging.NewSlogManager(),
		Session:    ctx,
		Version:    "dev",
	})
	backend := &mockBackend{}
	require.NoError(t, backend.StartSession(ctx.Get()))
	svc.SetBackend(backend)
	return svc, backend
}

func event(command string, args ...string) dispatcher.Event {
	return dispatcher.Event{Command: command, Args: args, Timestamp: time.Now()}
}

// startRunning brings the service's engine to Running at the given throttle.
func startRunning(t *testing.T, svc *Service, throttle int) {
	t.Helper()
	_, err := svc.HandlePantograph(event("pantograph", "up"))
	require.NoError(t, err)
	_, err = svc.HandleStart(event("start"))
	require.NoError(t, err)
	if throttle > 0 {
		_, err = svc.HandleThrottle(event("throttle", strconv.Itoa(throttle)))
		require.NoError(t, err)
	}
}

func TestPantograph(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.HandlePantograph(event("pantograph"))
	require.NoError(t, err)
	assert.Equal(t, "Pantograph is DOWN", result)

	result, err = svc.HandlePantograph(event("pantograph", "up"))
	require.NoError(t, err)
	assert.Equal(t, "Pantograph raised. Power available.", result)

	// Raising twice is a precondition failure.
	_, err = svc.HandlePantograph(event("pantograph", "up"))
	require.Error(t, err)
	var opErr *engine.OpError
	assert.True(t, errors.As(err, &opErr))

	result, err = svc.HandlePantograph(event("pantograph"))
	require.NoError(t, err)
	assert.Equal(t, "Pantograph is UP", result)

	result, err = svc.HandlePantograph(event("pantograph", "sideways"))
	require.NoError(t, err)
	assert.Equal(t, "Invalid pantograph command. Use 'up' or 'down'.", result)
}

func TestStartWithoutPower(t *testing.T) {
	svc, backend := newTestService(t)

	_, err := svc.HandleStart(event("start"))
	require.Error(t, err)

	require.Len(t, backend.commands, 1)
	assert.Equal(t, core.OutcomeRejected, backend.commands[0].Outcome)
	assert.NotEmpty(t, backend.commands[0].Detail)
}

func TestStartStop(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.HandlePantograph(event("pantograph", "up"))
	require.NoError(t, err)

	result, err := svc.HandleStart(event("start"))
	require.NoError(t, err)
	assert.Equal(t, "Engine started successfully.", result)

	result, err = svc.HandleStop(event("stop"))
	require.NoError(t, err)
	assert.Equal(t, "Engine stopped.", result)

	// Stop is always accepted, even when already off.
	_, err = svc.HandleStop(event("stop"))
	require.NoError(t, err)
}

func TestThrottleSingleNotch(t *testing.T) {
	svc, _ := newTestService(t)
	startRunning(t, svc, 0)

	result, err := svc.HandleThrottle(event("throttle"))
	require.NoError(t, err)
	assert.Equal(t, "Throttle increased. [Running] 10 km/h T:1/8", result)
}

func TestThrottleSetToLevel(t *testing.T) {
	svc, _ := newTestService(t)
	startRunning(t, svc, 0)

	result, err := svc.HandleThrottle(event("throttle", "5"))
	require.NoError(t, err)
	assert.Equal(t, "Throttle set to 5. [Running] 50 km/h T:5/8", result)
	assert.Equal(t, 5, svc.deps.Engine.ThrottleLevel())

	result, err = svc.HandleThrottle(event("throttle", "3"))
	require.NoError(t, err)
	assert.Equal(t, "Use brake to reduce throttle/speed.", result)
	assert.Equal(t, 5, svc.deps.Engine.ThrottleLevel())

	result, err = svc.HandleThrottle(event("throttle", "5"))
	require.NoError(t, err)
	assert.Equal(t, "Throttle already at 5.", result)
}

func TestThrottleInvalidArgument(t *testing.T) {
	svc, backend := newTestService(t)
	startRunning(t, svc, 0)

	result, err := svc.HandleThrottle(event("throttle", "fast"))
	require.NoError(t, err)
	assert.Equal(t, "Invalid throttle level. Use a number.", result)

	last := backend.commands[len(backend.commands)-1]
	assert.Equal(t, core.OutcomeInvalid, last.Outcome)
}

func TestThrottleBeyondMaximum(t *testing.T) {
	svc, _ := newTestService(t)
	startRunning(t, svc, 0)

	_, err := svc.HandleThrottle(event("throttle", "9"))
	require.Error(t, err)
	var opErr *engine.OpError
	require.True(t, errors.As(err, &opErr))
	// The first eight notches succeeded before the failure.
	assert.Equal(t, 8, svc.deps.Engine.ThrottleLevel())
}

func TestBrake(t *testing.T) {
	svc, _ := newTestService(t)
	startRunning(t, svc, 3)

	result, err := svc.HandleBrake(event("brake"))
	require.NoError(t, err)
	assert.Equal(t, "Brakes applied. [Braking] 20 km/h T:2/8", result)
}

func TestEmergency(t *testing.T) {
	svc, _ := newTestService(t)
	startRunning(t, svc, 4)

	result, err := svc.HandleEmergency(event("emergency"))
	require.NoError(t, err)
	assert.Equal(t, "EMERGENCY STOP EXECUTED! Engine halted.", result)
	assert.Equal(t, engine.StateIdle, svc.deps.Engine.State())
	assert.Equal(t, 0, svc.deps.Engine.SpeedKmh())
}

func TestSimulate(t *testing.T) {
	svc, _ := newTestService(t)
	startRunning(t, svc, 3)

	result, err := svc.HandleSimulate(event("simulate", "60"))
	require.NoError(t, err)
	assert.Equal(t, "Simulated 60s of movement. [Running] 30 km/h T:3/8", result)
	assert.Equal(t, 500, svc.deps.Engine.Status().DistanceM)
}

func TestSimulateArgumentValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing", nil, "Please specify simulation time in seconds."},
		{"non-numeric", []string{"soon"}, "Invalid time value. Use a number in seconds."},
		{"zero", []string{"0"}, "Please specify a positive time value."},
		{"negative", []string{"-5"}, "Please specify a positive time value."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.HandleSimulate(event("simulate", tt.args...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestStatus(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.HandleStatus(event("status"))
	require.NoError(t, err)
	assert.Equal(t,
		"State: Off | Speed: 0 km/h | Throttle: 0/8 | Pantograph: Down | Voltage: 0 V | Distance: 0 m | Runtime: 0 s",
		result)

	result, err = svc.HandleStatus(event("status", "compact"))
	require.NoError(t, err)
	assert.Equal(t, "[Off] 0 km/h T:0/8", result)
}

func TestVerboseToggle(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.HandleVerbose(event("verbose"))
	require.NoError(t, err)
	assert.Equal(t, "Verbose logging enabled.", result)
	assert.True(t, svc.deps.LogManager.Verbose())

	result, err = svc.HandleVerbose(event("verbose"))
	require.NoError(t, err)
	assert.Equal(t, "Verbose logging disabled.", result)
	assert.False(t, svc.deps.LogManager.Verbose())
}

func TestHelpListsAllCommands(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.HandleHelp(event("help"))
	require.NoError(t, err)

	text, ok := result.(string)
	require.True(t, ok)
	for _, cmd := range []string{"pantograph", "start", "stop", "throttle", "brake", "emergency", "simulate", "status", "verbose", "help", "exit"} {
		assert.Contains(t, text, cmd)
	}
}

func TestJournalPairsCommandAndSnapshot(t *testing.T) {
	svc, backend := newTestService(t)

	_, err := svc.HandlePantograph(event("pantograph", "up"))
	require.NoError(t, err)
	_, err = svc.HandleStart(event("start"))
	require.NoError(t, err)

	require.Len(t, backend.commands, 2)
	require.Len(t, backend.snapshots, 2)

	for i := range backend.commands {
		assert.Equal(t, backend.commands[i].Seq, backend.snapshots[i].Seq)
		assert.Equal(t, uint(1), backend.commands[i].SessionID)
	}

	assert.Equal(t, "pantograph up", backend.commands[0].Input)
	assert.Equal(t, "Idle", backend.snapshots[1].State)
	assert.Equal(t, 25000, backend.snapshots[1].VoltageV)
}

func TestRegisterAll(t *testing.T) {
	svc, _ := newTestService(t)

	d, err := dispatcher.New(svc.deps.LogManager.Logger())
	require.NoError(t, err)
	svc.RegisterAll(d)

	for _, cmd := range []string{"pantograph", "start", "stop", "throttle", "brake", "emergency", "simulate", "status", "help", "verbose"} {
		assert.True(t, d.HasHandler(cmd), cmd)
	}
	assert.False(t, d.HasHandler("exit"))
}

func TestPublishHook(t *testing.T) {
	svc, _ := newTestService(t)

	var published []engine.Snapshot
	svc.deps.Publish = func(s engine.Snapshot) {
		published = append(published, s)
	}

	_, err := svc.HandlePantograph(event("pantograph", "up"))
	require.NoError(t, err)
	_, err = svc.HandleStatus(event("status"))
	require.NoError(t, err)

	require.Len(t, published, 2)
	assert.True(t, published[1].PantographUp)
}
