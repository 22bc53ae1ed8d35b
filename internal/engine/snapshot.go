package engine

import "fmt"

// Snapshot is an immutable view of the locomotive state, taken by Status.
// The dispatcher renders the String and Compact forms verbatim.
type Snapshot struct {
	State         State `json:"state"`
	SpeedKmh      int   `json:"speedKmh"`
	ThrottleLevel int   `json:"throttleLevel"`
	ThrottleMax   int   `json:"throttleMax"`
	PantographUp  bool  `json:"pantographUp"`
	VoltageV      int   `json:"voltageV"`
	DistanceM     int   `json:"distanceM"`
	RunningTimeS  int   `json:"runningTimeS"`
}

// String returns the full one-line status report.
func (s Snapshot) String() string {
	pantograph := "Down"
	if s.PantographUp {
		pantograph = "Up"
	}
	return fmt.Sprintf(
		"State: %s | Speed: %d km/h | Throttle: %d/%d | Pantograph: %s | Voltage: %d V | Distance: %d m | Runtime: %d s",
		s.State, s.SpeedKmh, s.ThrottleLevel, s.ThrottleMax,
		pantograph, s.VoltageV, s.DistanceM, s.RunningTimeS,
	)
}

// Compact returns the short status form used after movement commands.
func (s Snapshot) Compact() string {
	return fmt.Sprintf("[%s] %d km/h T:%d/%d", s.State, s.SpeedKmh, s.ThrottleLevel, s.ThrottleMax)
}
