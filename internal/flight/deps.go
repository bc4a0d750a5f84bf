package flight

import "github.com/cornellrocketryteam/control-core/internal/flightpacket"

// SensorReader populates the packet's sensor fields in place. A
// non-nil error means the altimeter read failed this cycle; the FSM
// applies the one-way INVALID latch policy from spec.md §4.1, not the
// reader. Grounded on the original source's per-module Read() shape
// (see SPEC_FULL.md "Supplemented features").
type SensorReader interface {
	Read(p *flightpacket.Packet) error
}

// Actuators is the flight computer's actuator sink: drogue/main
// deployment, the MAV, and the fill-station-shared solenoid valves
// that the ascent sequence opens at launch.
type Actuators interface {
	OpenMav() error
	CloseMav() error
	MavIsOpen() bool
	OpenSV() error
	CloseSV() error
	SVIsOpen() bool
	FireDrogue() error
	FireMain() error
	ArmBlims() error
}

// Radio transmits the fixed-format telemetry frame (spec.md §4.1, §6).
type Radio interface {
	Transmit(p *flightpacket.Packet) error
}

// Scratchpad is the non-volatile FRAM fallback log (spec.md §4.1, §6).
type Scratchpad interface {
	WriteFlightMode(mode flightpacket.FlightMode) error
	WriteAltitude(alt float32) error
}

// Inputs are the three discrete external signals the FSM reads each
// cycle, beyond sensor validity (spec.md §3 FlightState).
type Inputs interface {
	KeyArmed() bool
	UmbilicalConnected() bool
	LaunchCommanded() bool
}

// DataLogger shuts down onboard SD logging; its availability (not
// its content) is what the FSM checks via SDLoggingEnabled.
type DataLogger interface {
	Shutdown() error
}
