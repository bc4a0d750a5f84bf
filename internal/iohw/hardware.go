package iohw

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Hardware is the single mutex-protected owner of every actuator
// handle, shared between the fill-station command dispatcher and (via
// the FlightActuators adapter) the flight computer's FSM (spec.md §5
// "Shared-resource policy"). Holders must not await/sleep while
// holding the mutex except for the one hardware primitive in flight.
// The ball valve's 3s sequences and the dispatcher's ignite sequence do
// not take this mutex at all, so it is never held across their sleeps.
type Hardware struct {
	mu sync.Mutex

	Solenoids map[string]*SolenoidValve // sv1..sv5
	BallValve *BallValve
	Mav       *Mav
	Igniters  map[string]*Igniter // igniter1, igniter2

	Logger *log.Logger
}

// NewHardware wraps already-constructed component handles.
func NewHardware(solenoids map[string]*SolenoidValve, bv *BallValve, mav *Mav, igniters map[string]*Igniter, logger *log.Logger) *Hardware {
	return &Hardware{Solenoids: solenoids, BallValve: bv, Mav: mav, Igniters: igniters, Logger: logger}
}

// Solenoid looks up a valve by case-normalized name (spec.md §4.2).
func (h *Hardware) Solenoid(name string) (*SolenoidValve, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sv, ok := h.Solenoids[strings.ToLower(name)]
	return sv, ok
}

// Igniter looks up an igniter by id (1 or 2).
func (h *Hardware) Igniter(id int) (*Igniter, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ig, ok := h.Igniters[fmt.Sprintf("igniter%d", id)]
	return ig, ok
}

// ActuateSolenoid sets a named solenoid's state under the shared mutex.
func (h *Hardware) ActuateSolenoid(name string, enable bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	sv, ok := h.Solenoids[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown valve %q", name)
	}
	return sv.Actuate(enable)
}

// armBlims is a stand-in for the payload's Blast-Limiting Safety
// system: no register-level component for it appears in the original
// source, so it is a logged no-op (see DESIGN.md).
func (h *Hardware) armBlims() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Logger.Println("BLiMS armed")
	return nil
}

// FlightActuators adapts Hardware to the FSM's flight.Actuators
// contract. OpenSV/CloseSV act on sv1, the registry's primary vent
// valve — an Open Question resolution documented in DESIGN.md, since
// spec.md §4.1's transition table names a singular "SV" without
// identifying which of sv1..sv5 the ascent sequence addresses.
type FlightActuators struct {
	HW *Hardware
}

func (a *FlightActuators) OpenMav() error  { return withLock(a.HW, func() error { return a.HW.Mav.Open() }) }
func (a *FlightActuators) CloseMav() error { return withLock(a.HW, func() error { return a.HW.Mav.Close() }) }

func (a *FlightActuators) MavIsOpen() bool {
	a.HW.mu.Lock()
	defer a.HW.mu.Unlock()
	return a.HW.Mav.IsOpen()
}

func (a *FlightActuators) OpenSV() error {
	return withLock(a.HW, func() error { return a.HW.Solenoids["sv1"].Actuate(true) })
}

func (a *FlightActuators) CloseSV() error {
	return withLock(a.HW, func() error { return a.HW.Solenoids["sv1"].Actuate(false) })
}

func (a *FlightActuators) SVIsOpen() bool {
	a.HW.mu.Lock()
	defer a.HW.mu.Unlock()
	return a.HW.Solenoids["sv1"].IsActuated()
}

// FireDrogue and FireMain map onto igniter1/igniter2 per the original
// source's Hardware{ig1, ig2} wiring: igniter1 drives the drogue
// charge, igniter2 the main charge.
func (a *FlightActuators) FireDrogue() error { return a.fire("igniter1") }
func (a *FlightActuators) FireMain() error   { return a.fire("igniter2") }

func (a *FlightActuators) fire(name string) error {
	return withLock(a.HW, func() error {
		ig, ok := a.HW.Igniters[name]
		if !ok {
			return fmt.Errorf("igniter %q not wired", name)
		}
		if err := ig.SetActuated(true); err != nil {
			return err
		}
		return nil
	})
}

func (a *FlightActuators) ArmBlims() error { return a.HW.armBlims() }

func withLock(h *Hardware, fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn()
}
