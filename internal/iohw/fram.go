package iohw

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
	"periph.io/x/periph/conn/spi"
)

// FRAM scratchpad register addresses (spec.md §4.1).
const (
	framAddrFlightMode = 0
	framAddrAltitude   = 100
)

const (
	framCmdWriteEnable = 0x06
	framCmdRead        = 0x03
	framCmdWrite       = 0x02
)

// Fram is an MB85RS-class SPI FRAM scratchpad: an 18-bit address
// space holding big-endian u32 words, grounded on the original
// source's MB85RS2 driver.
type Fram struct {
	conn spi.Conn
}

// NewFram wraps an already-connected SPI conn (mode/speed/CS handled
// by the caller via spi.Port.Connect, per periph.io convention).
func NewFram(conn spi.Conn) *Fram {
	return &Fram{conn: conn}
}

func addrBytes(addr uint32) [3]byte {
	return [3]byte{
		byte((addr >> 16) & 0x03), // top 2 bits only: 18-bit address space
		byte((addr >> 8) & 0xFF),
		byte(addr & 0xFF),
	}
}

// readU32 reads a big-endian u32 from the given address.
func (f *Fram) readU32(addr uint32) (uint32, error) {
	ab := addrBytes(addr)
	cmd := append([]byte{framCmdRead}, ab[:]...)
	cmd = append(cmd, make([]byte, 4)...)
	resp := make([]byte, len(cmd))
	if err := f.conn.Tx(cmd, resp); err != nil {
		return 0, fmt.Errorf("fram: read addr %d: %w", addr, err)
	}
	return binary.BigEndian.Uint32(resp[len(resp)-4:]), nil
}

// writeU32 writes a big-endian u32 to the given address.
func (f *Fram) writeU32(addr, value uint32) error {
	if err := f.conn.Tx([]byte{framCmdWriteEnable}, nil); err != nil {
		return fmt.Errorf("fram: write enable: %w", err)
	}
	ab := addrBytes(addr)
	var payload [4]byte
	binary.BigEndian.PutUint32(payload[:], value)
	cmd := append([]byte{framCmdWrite}, ab[:]...)
	cmd = append(cmd, payload[:]...)
	if err := f.conn.Tx(cmd, make([]byte, len(cmd))); err != nil {
		return fmt.Errorf("fram: write addr %d: %w", addr, err)
	}
	return nil
}

// WriteFlightMode implements flight.Scratchpad.
func (f *Fram) WriteFlightMode(mode flightpacket.FlightMode) error {
	return f.writeU32(framAddrFlightMode, uint32(mode))
}

// ReadFlightMode reads back the last-written flight mode, for
// recovery/inspection tooling outside the FSM's hot path.
func (f *Fram) ReadFlightMode() (flightpacket.FlightMode, error) {
	v, err := f.readU32(framAddrFlightMode)
	return flightpacket.FlightMode(v), err
}

// WriteAltitude implements flight.Scratchpad, storing altitude's raw
// IEEE-754 bit pattern (spec.md §4.1).
func (f *Fram) WriteAltitude(alt float32) error {
	return f.writeU32(framAddrAltitude, math.Float32bits(alt))
}

// ReadAltitude reads back the last-written altitude bit pattern.
func (f *Fram) ReadAltitude() (float32, error) {
	v, err := f.readU32(framAddrAltitude)
	return math.Float32frombits(v), err
}
