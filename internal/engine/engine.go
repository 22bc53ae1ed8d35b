// Package engine implements the WAP-7 locomotive state machine: pantograph,
// power state, throttle and braking, with caller-driven movement simulation
// and wall-clock running-time accounting. Strict operations return *OpError
// on precondition violations; lenient operations silently do nothing when
// their preconditions are unmet.
package engine

import "time"

// Simulation constants.
const (
	MaxThrottle     = 8   // discrete throttle notches
	ThrottleStepKmh = 10  // km/h per throttle notch
	MaxSpeedKmh     = 140 // absolute cap; full throttle alone reaches 80

	StandardBrakeKmh  = 10 // speed shed per standard brake application
	EmergencyBrakeKmh = 30 // emergency deceleration rating; the stop itself halts outright

	StandardVoltage = 25000 // 25 kV AC overhead supply
)

// Locomotive owns all mutable simulation state. It is not safe for
// concurrent use; the command loop is its single caller.
type Locomotive struct {
	state         State
	speedKmh      int
	throttleLevel int
	pantographUp  bool
	voltageV      int
	distanceM     int

	// Running time accrues only while state != Off. runningMark is the
	// monotonic wall-clock point of the last flush; zero while Off. The
	// accumulator is never reset within a run, so it compounds across
	// start/stop cycles.
	runningTime time.Duration
	runningMark time.Time

	now func() time.Time
}

// New returns a locomotive in the initial state: Off, pantograph down,
// everything zero.
func New() *Locomotive {
	return &Locomotive{now: time.Now}
}

// NewWithClock returns a locomotive that reads the given clock for
// running-time accounting.
func NewWithClock(now func() time.Time) *Locomotive {
	return &Locomotive{now: now}
}

// RaisePantograph connects the locomotive to the overhead line, energising
// the supply at the standard voltage.
func (l *Locomotive) RaisePantograph() error {
	if l.pantographUp {
		return &OpError{Kind: AlreadyRaised, State: l.state}
	}
	l.pantographUp = true
	l.voltageV = StandardVoltage
	return nil
}

// LowerPantograph disconnects from the overhead line. Only legal while the
// engine is Off.
func (l *Locomotive) LowerPantograph() error {
	if l.state != StateOff {
		return &OpError{Kind: InvalidStateForPantographLower, State: l.state}
	}
	l.pantographUp = false
	l.voltageV = 0
	return nil
}

// StartEngine moves the engine from Off to Idle and captures the
// running-time baseline. Requires the pantograph to be up.
func (l *Locomotive) StartEngine() error {
	if l.state != StateOff {
		return &OpError{Kind: AlreadyStarted, State: l.state}
	}
	if !l.pantographUp {
		return &OpError{Kind: NoPowerToStart, State: l.state}
	}
	l.state = StateIdle
	l.runningMark = l.now()
	return nil
}

// StopEngine flushes accumulated running time and returns the engine to Off
// with speed and throttle zeroed. Calling it when already Off is a no-op.
func (l *Locomotive) StopEngine() {
	if l.state == StateOff {
		return
	}
	l.flushRunningTime()
	l.runningMark = time.Time{}
	l.state = StateOff
	l.speedKmh = 0
	l.throttleLevel = 0
}

// IncreaseThrottle advances the throttle one notch and recomputes speed.
// Legal from Idle or Running; the engine is Running afterwards.
func (l *Locomotive) IncreaseThrottle() error {
	if l.state != StateIdle && l.state != StateRunning {
		return &OpError{Kind: InvalidStateForThrottle, State: l.state}
	}
	if l.throttleLevel >= MaxThrottle {
		return &OpError{Kind: ThrottleAtMaximum, State: l.state, Value: MaxThrottle}
	}
	l.throttleLevel++
	l.updateSpeed()
	l.state = StateRunning
	return nil
}

func (l *Locomotive) updateSpeed() {
	target := l.throttleLevel * ThrottleStepKmh
	if target > MaxSpeedKmh {
		target = MaxSpeedKmh
	}
	l.speedKmh = target
}

// ApplyBrakes sheds one standard brake application worth of speed and caps
// the throttle to the band the new speed sits in. Braking to a standstill
// lands in Idle with the throttle closed. No-op at standstill.
func (l *Locomotive) ApplyBrakes() {
	if l.speedKmh <= 0 {
		return
	}
	l.state = StateBraking
	l.speedKmh -= StandardBrakeKmh
	if l.speedKmh < 0 {
		l.speedKmh = 0
	}
	if lvl := l.speedKmh / ThrottleStepKmh; lvl < l.throttleLevel {
		l.throttleLevel = lvl
	}
	if l.speedKmh == 0 {
		l.state = StateIdle
		l.throttleLevel = 0
	}
}

// EmergencyStop brings the locomotive to an immediate halt, landing in Idle
// rather than Braking. No-op at standstill.
func (l *Locomotive) EmergencyStop() {
	if l.speedKmh <= 0 {
		return
	}
	l.speedKmh = 0
	l.throttleLevel = 0
	l.state = StateIdle
}

// SimulateMovement advances the odometer by the given number of simulated
// seconds of travel at the current speed, truncating toward zero on the
// final conversion to meters. Zero effect unless Running or Braking.
// Simulated seconds are independent of the wall-clock running time; the
// caller validates that seconds is positive.
func (l *Locomotive) SimulateMovement(seconds int) {
	if l.state != StateRunning && l.state != StateBraking {
		return
	}
	hours := float64(seconds) / 3600.0
	l.distanceM += int(float64(l.speedKmh) * hours * 1000.0)
}

func (l *Locomotive) flushRunningTime() {
	if l.runningMark.IsZero() {
		return
	}
	now := l.now()
	l.runningTime += now.Sub(l.runningMark)
	l.runningMark = now
}

// Status flushes running-time accounting and returns an immutable snapshot
// of all fields.
func (l *Locomotive) Status() Snapshot {
	l.flushRunningTime()
	return Snapshot{
		State:         l.state,
		SpeedKmh:      l.speedKmh,
		ThrottleLevel: l.throttleLevel,
		ThrottleMax:   MaxThrottle,
		PantographUp:  l.pantographUp,
		VoltageV:      l.voltageV,
		DistanceM:     l.distanceM,
		RunningTimeS:  int(l.runningTime / time.Second),
	}
}

// State returns the current power state.
func (l *Locomotive) State() State { return l.state }

// SpeedKmh returns the current speed.
func (l *Locomotive) SpeedKmh() int { return l.speedKmh }

// ThrottleLevel returns the current throttle notch.
func (l *Locomotive) ThrottleLevel() int { return l.throttleLevel }

// PantographUp reports whether the pantograph is raised.
func (l *Locomotive) PantographUp() bool { return l.pantographUp }
