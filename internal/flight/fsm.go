// Package flight implements the flight-computer state machine
// (spec.md §4.1): seven modes, strict sensor-validity preconditions,
// and the side effects that drive actuators, the radio, and the FRAM
// scratchpad.
package flight

import (
	"log"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
)

// FSM drives one Step() per cycle (nominal 10Hz). It has exactly one
// caller goroutine and needs no internal locking (spec.md §5).
type FSM struct {
	State  *State
	Cfg    Config
	Logger *log.Logger

	Sensors    SensorReader
	Actuators  Actuators
	Radio      Radio
	Scratchpad Scratchpad
	Inputs     Inputs
}

// New returns an FSM ready to Step from a booted State.
func New(state *State, cfg Config, logger *log.Logger, sensors SensorReader, actuators Actuators, radio Radio, scratchpad Scratchpad, inputs Inputs) *FSM {
	return &FSM{
		State: state, Cfg: cfg, Logger: logger,
		Sensors: sensors, Actuators: actuators, Radio: radio,
		Scratchpad: scratchpad, Inputs: inputs,
	}
}

// Step performs one FSM cycle: read sensors, evaluate the
// mode-specific guards and side effects, transmit telemetry, and log
// the FRAM scratchpad when appropriate (spec.md §4.1).
func (f *FSM) Step() {
	s := f.State
	s.CycleCount++

	f.readSensors()
	f.readInputs()

	switch s.Mode {
	case flightpacket.Startup:
		f.stepStartup()
	case flightpacket.Standby:
		f.stepStandby()
	case flightpacket.Ascent:
		f.stepAscent()
	case flightpacket.Coast:
		f.stepCoast()
	case flightpacket.DrogueDeployed:
		f.stepDrogueDeployed()
	case flightpacket.MainDeployed:
		f.stepMainDeployed()
	case flightpacket.Fault:
		// terminal; no side effects (spec.md §4.1)
	}

	s.Packet.FlightMode = s.Mode
	if err := f.Radio.Transmit(&s.Packet); err != nil {
		f.Logger.Printf("radio transmit failed: %v", err)
	}

	f.logScratchpad()
}

// readSensors populates the packet and applies the one-way INVALID
// latch policy (spec.md §4.1 "Altimeter state policy").
func (f *FSM) readSensors() {
	if f.State.AltimeterState == AltimeterInvalid {
		// terminal within this flight; still attempt a read so the
		// packet's other fields stay fresh, but never clear the latch.
		_ = f.Sensors.Read(&f.State.Packet)
		return
	}

	if err := f.Sensors.Read(&f.State.Packet); err != nil {
		f.Logger.Printf("altimeter read failed, latching INVALID: %v", err)
		f.State.AltimeterState = AltimeterInvalid
		return
	}

	f.State.AltimeterState = AltimeterValid
}

func (f *FSM) readInputs() {
	if f.Inputs == nil {
		return
	}
	f.State.KeyArmed = f.Inputs.KeyArmed()
	f.State.UmbilicalConnected = f.Inputs.UmbilicalConnected()
	f.State.LaunchCommanded = f.Inputs.LaunchCommanded()
}

// valid is a shorthand used throughout the per-mode steppers.
func (f *FSM) valid() bool { return f.State.AltimeterState == AltimeterValid }

func (f *FSM) toFault() {
	f.State.Mode = flightpacket.Fault
	f.State.Loop.Latches.AltArmed = false
}

func (f *FSM) stepStartup() {
	s := f.State
	if !f.valid() {
		// not yet armed and no valid altimeter: stay in Startup. The
		// Fault transition here only fires once the key is armed.
		if s.KeyArmed {
			f.toFault()
		}
		return
	}

	s.ReferencePressure = s.Packet.Pressure

	if s.KeyArmed {
		s.ArmingAltitude = s.Packet.Altitude
		s.Loop.Latches.AltArmed = true
		s.Mode = flightpacket.Standby
	}
}

func (f *FSM) stepStandby() {
	s := f.State
	if !f.valid() {
		f.toFault()
		return
	}

	if s.LaunchCommanded {
		if err := f.Actuators.OpenMav(); err != nil {
			f.Logger.Printf("open MAV at launch failed: %v", err)
		}
		if err := f.Actuators.OpenSV(); err != nil {
			f.Logger.Printf("open SV at launch failed: %v", err)
		}
		s.ReferencePressure = s.Packet.Pressure
		s.Loop.Latches.AltArmed = true
		s.Mode = flightpacket.Ascent
		return
	}

	if !s.KeyArmed {
		s.Mode = flightpacket.Startup
	}
}

func (f *FSM) stepAscent() {
	s := f.State
	if !f.valid() {
		f.toFault()
		return
	}

	if !s.Loop.Latches.AltArmed && s.Packet.Altitude > f.Cfg.ArmingAltitude {
		s.Loop.Latches.AltArmed = true
	}

	if !f.Actuators.MavIsOpen() {
		s.Mode = flightpacket.Coast
		return
	}

	if !s.SDLoggingEnabled {
		if err := f.Scratchpad.WriteAltitude(s.Packet.Altitude); err != nil {
			f.Logger.Printf("FRAM fallback altitude write failed: %v", err)
		}
	}
}

func (f *FSM) stepCoast() {
	s := f.State
	if !f.valid() {
		f.toFault()
		return
	}

	// Supplemented feature (SPEC_FULL.md): the FRAM fallback also runs
	// past Ascent when SD logging is unavailable.
	if !s.SDLoggingEnabled {
		if err := f.Scratchpad.WriteAltitude(s.Packet.Altitude); err != nil {
			f.Logger.Printf("FRAM fallback altitude write failed: %v", err)
		}
	}

	if !s.Loop.Latches.AltArmed {
		return
	}

	s.Loop.Altitudes.Push(s.Packet.Altitude)
	s.Loop.Filtered.Shift(s.Loop.Altitudes.Mean())

	if s.Loop.Filtered.ApogeeDetected() {
		s.Loop.Latches.CameraDeployed = true
		s.Loop.Latches.AirbrakesInit = false
		if err := f.Actuators.FireDrogue(); err != nil {
			f.Logger.Printf("drogue fire failed: %v", err)
		}
		s.Loop.Latches.DrogueDeployed = true
		s.Mode = flightpacket.DrogueDeployed
	}
}

func (f *FSM) stepDrogueDeployed() {
	s := f.State
	if !f.valid() {
		f.toFault()
		return
	}

	if !s.SDLoggingEnabled {
		if err := f.Scratchpad.WriteAltitude(s.Packet.Altitude); err != nil {
			f.Logger.Printf("FRAM fallback altitude write failed: %v", err)
		}
	}

	if s.Loop.MainCycleCount < MainDeployWaitCycles {
		s.Loop.MainCycleCount++
		return
	}
	if s.Loop.MainCycleCount == MainDeployWaitCycles {
		s.Loop.MainCycleCount++
		f.Logger.Println("main deploy wait complete")
		return
	}

	if s.Packet.Altitude < f.Cfg.MainDeployAltitude {
		if err := f.Actuators.FireMain(); err != nil {
			f.Logger.Printf("main fire failed: %v", err)
		}
		s.Loop.Latches.MainChutesDeployed = true
		s.Mode = flightpacket.MainDeployed
	}
}

func (f *FSM) stepMainDeployed() {
	s := f.State
	if !f.valid() {
		f.toFault()
		return
	}

	if !s.SDLoggingEnabled {
		if err := f.Scratchpad.WriteAltitude(s.Packet.Altitude); err != nil {
			f.Logger.Printf("FRAM fallback altitude write failed: %v", err)
		}
	}

	if s.Loop.LogCycleCount < MainLogEndCycles {
		s.Loop.LogCycleCount++
	} else if s.Loop.LogCycleCount == MainLogEndCycles {
		s.Loop.Latches.LogArmed = false
		f.Logger.Println("shutting down data logging")
		s.Loop.LogCycleCount++
	}

	// spec.md §4.1: MainDeployed arms BLiMS unconditionally every cycle,
	// not just once.
	if err := f.Actuators.ArmBlims(); err != nil {
		f.Logger.Printf("BLiMS arm failed: %v", err)
	}
	s.Loop.Latches.BlimsArmed = true
}

// logScratchpad persists the current flight mode to FRAM every cycle,
// per spec.md §4.1/§6. Writes may fail silently (log only).
func (f *FSM) logScratchpad() {
	if err := f.Scratchpad.WriteFlightMode(f.State.Mode); err != nil {
		f.Logger.Printf("FRAM flight-mode write failed: %v", err)
	}
}
