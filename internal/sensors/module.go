// Package sensors wraps the flight computer's individual sensor
// drivers behind a uniform Init/Read contract, then aggregates them
// into the single flightpacket.Packet the FSM consumes (spec.md §3,
// §9 supplemented "Module" pattern). Each module is black-box per
// spec.md §1 Non-goals: register-level protocols for the BMP390,
// ICM-42688-P, AK09915, and uBlox MAX-M10S live behind periph.io bus
// handles, not in this package.
package sensors

import "github.com/cornellrocketryteam/control-core/internal/flightpacket"

// Module is the uniform per-sensor contract: Init prepares the
// device, Read populates its fields of the shared packet in place.
type Module interface {
	Init() error
	Read(p *flightpacket.Packet) error
}
