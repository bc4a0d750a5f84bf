package flight

import (
	"bytes"
	"log"
	"testing"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
)

// scriptedSensors feeds a fixed altitude trajectory and never fails,
// matching spec.md §8 scenario S1 ("altimeter_state=VALID throughout").
type scriptedSensors struct {
	altitudes []float32
	idx       int
}

func (s *scriptedSensors) Read(p *flightpacket.Packet) error {
	alt := s.altitudes[len(s.altitudes)-1]
	if s.idx < len(s.altitudes) {
		alt = s.altitudes[s.idx]
	}
	s.idx++
	p.Pressure = 101325
	p.Altitude = alt
	return nil
}

type scriptedActuators struct {
	mavOpen, svOpen bool
	drogueFired     bool
	mainFired       bool
	blimsArms       int
}

func (a *scriptedActuators) OpenMav() error  { a.mavOpen = true; return nil }
func (a *scriptedActuators) CloseMav() error { a.mavOpen = false; return nil }
func (a *scriptedActuators) MavIsOpen() bool { return a.mavOpen }
func (a *scriptedActuators) OpenSV() error   { a.svOpen = true; return nil }
func (a *scriptedActuators) CloseSV() error  { a.svOpen = false; return nil }
func (a *scriptedActuators) SVIsOpen() bool  { return a.svOpen }
func (a *scriptedActuators) FireDrogue() error {
	a.drogueFired = true
	return nil
}
func (a *scriptedActuators) FireMain() error {
	a.mainFired = true
	return nil
}
func (a *scriptedActuators) ArmBlims() error {
	a.blimsArms++
	return nil
}

type recordingRadio struct {
	sent []flightpacket.Packet
}

func (r *recordingRadio) Transmit(p *flightpacket.Packet) error {
	r.sent = append(r.sent, p.Snapshot())
	return nil
}

type nopScratchpad struct{}

func (nopScratchpad) WriteFlightMode(flightpacket.FlightMode) error { return nil }
func (nopScratchpad) WriteAltitude(float32) error                   { return nil }

// TestFSM_S1_NominalFlight drives the exact altitude trajectory of
// spec.md §8 scenario S1 and asserts the mode sequence reaches
// MainDeployed via Standby, Ascent, Coast and DrogueDeployed in order,
// without ever faulting.
func TestFSM_S1_NominalFlight(t *testing.T) {
	altitudes := []float32{
		0, 100, 189, 311, 420, 732, 864.1, 1029.4, 1413.9, 1692.1,
		1999.9, 2209.9, 2509.9, 2900.9, 2618.8, 2163.1, 1300.0, 949.0, 400.0, 0.0,
	}

	sensors := &scriptedSensors{altitudes: altitudes}
	actuators := &scriptedActuators{}
	radio := &recordingRadio{}
	cfg := Config{ArmingAltitude: 100, MainDeployAltitude: 500}
	state := NewState()
	var logBuf bytes.Buffer
	logger := log.New(&logBuf, "", 0)

	fsm := New(state, cfg, logger, sensors, actuators, radio, nopScratchpad{}, nil)

	seen := []flightpacket.FlightMode{state.Mode}
	recordIfNew := func() {
		if state.Mode != seen[len(seen)-1] {
			seen = append(seen, state.Mode)
		}
	}

	// Step 1: arrive in Startup with a valid read, latch reference
	// pressure, but stay in Startup (not yet key-armed).
	fsm.Step()
	recordIfNew()
	if state.Mode != flightpacket.Startup {
		t.Fatalf("mode after first valid read = %v, want Startup", state.Mode)
	}

	// Arm the key: next step moves to Standby.
	state.KeyArmed = true
	fsm.Step()
	recordIfNew()
	if state.Mode != flightpacket.Standby {
		t.Fatalf("mode after key_armed = %v, want Standby", state.Mode)
	}

	// Launch: next step opens MAV/SV and moves to Ascent.
	state.LaunchCommanded = true
	fsm.Step()
	recordIfNew()
	if state.Mode != flightpacket.Ascent {
		t.Fatalf("mode after launch = %v, want Ascent", state.Mode)
	}
	if !actuators.mavOpen || !actuators.svOpen {
		t.Fatal("expected MAV and SV open after launch transition")
	}
	if !state.Loop.Latches.AltArmed {
		t.Fatal("expected alt_armed latched at launch")
	}

	// Close the MAV (burnout): next step moves to Coast, and every
	// subsequent altitude sample drives the ring buffer + filter.
	actuators.mavOpen = false

	// Drive enough cycles to cover the descent filter converging on the
	// trajectory, the post-apogee wait, and the post-main log window;
	// the sensor script holds at the final (ground-level) altitude once
	// the scripted samples are exhausted.
	maxCycles := len(altitudes) + MainDeployWaitCycles + MainLogEndCycles + 50
	for i := 0; i < maxCycles && state.Mode != flightpacket.MainDeployed; i++ {
		fsm.Step()
		recordIfNew()
		if state.Mode == flightpacket.Fault {
			t.Fatalf("unexpected Fault at cycle %d", state.CycleCount)
		}
	}
	if state.Mode != flightpacket.MainDeployed {
		t.Fatalf("did not reach MainDeployed within %d cycles, stuck in %v", maxCycles, state.Mode)
	}

	// One more cycle inside MainDeployed to exercise its BLiMS side effect.
	fsm.Step()

	wantOrder := []flightpacket.FlightMode{
		flightpacket.Startup,
		flightpacket.Standby,
		flightpacket.Ascent,
		flightpacket.Coast,
		flightpacket.DrogueDeployed,
		flightpacket.MainDeployed,
	}
	if len(seen) != len(wantOrder) {
		t.Fatalf("mode sequence = %v, want %v", seen, wantOrder)
	}
	for i, m := range wantOrder {
		if seen[i] != m {
			t.Fatalf("mode sequence = %v, want %v", seen, wantOrder)
		}
	}

	if !actuators.drogueFired {
		t.Fatal("expected drogue to have fired")
	}
	if !actuators.mainFired {
		t.Fatal("expected main to have fired")
	}
	if actuators.blimsArms == 0 {
		t.Fatal("expected BLiMS to have been armed in MainDeployed")
	}
	if len(radio.sent) == 0 {
		t.Fatal("expected telemetry to have been transmitted")
	}
}

