package sensors

import (
	"fmt"
	"math"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
	"periph.io/x/periph/conn/i2c"
)

// Altimeter wraps a BMP390-class barometric sensor reachable over I2C.
// Register-level protocol is out of scope (spec.md §1 Non-goals); this
// driver treats the part as a black box that yields raw pressure and
// temperature counts over a fixed register read, grounded on the
// original driver's pressure/temperature/altitude measurement shape.
type Altimeter struct {
	bus     i2c.Bus
	addr    uint16
	seaRef  float32 // reference pressure for altitude conversion, Pa
}

const bmp390MeasureReg = 0x04

// NewAltimeter returns a BMP390-class altimeter at the given I2C
// address on bus, using seaLevelPa as the altitude-conversion reference.
func NewAltimeter(bus i2c.Bus, addr uint16, seaLevelPa float32) *Altimeter {
	return &Altimeter{bus: bus, addr: addr, seaRef: seaLevelPa}
}

// Init performs the sensor's power-on sequence. Errors are returned,
// not fatal: the FSM's altimeter latch policy decides what to do with
// a failed read (spec.md §4.1).
func (a *Altimeter) Init() error {
	if err := a.bus.Tx(a.addr, []byte{0x7e, 0xb6}, nil); err != nil {
		return fmt.Errorf("altimeter reset: %w", err)
	}
	return nil
}

// Read issues a measurement transaction and converts the result into
// pressure (Pa), temperature (C), and barometric altitude (m).
func (a *Altimeter) Read(p *flightpacket.Packet) error {
	raw := make([]byte, 6)
	if err := a.bus.Tx(a.addr, []byte{bmp390MeasureReg}, raw); err != nil {
		return fmt.Errorf("altimeter measure: %w", err)
	}

	pressPa := decode24(raw[0:3])
	tempC := decode24(raw[3:6]) / 100.0

	p.Pressure = pressPa
	p.Temperature = tempC
	p.Altitude = pressureToAltitude(pressPa, a.seaRef)
	return nil
}

// decode24 turns a 24-bit little-endian unsigned fixed-point register
// triplet into a float32 counts value.
func decode24(b []byte) float32 {
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	return float32(v)
}

// pressureToAltitude applies the international barometric formula.
func pressureToAltitude(pressurePa, seaLevelPa float32) float32 {
	if seaLevelPa <= 0 {
		return 0
	}
	ratio := float64(pressurePa) / float64(seaLevelPa)
	return float32(44330.0 * (1.0 - math.Pow(ratio, 0.1903)))
}
