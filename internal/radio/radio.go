// Package radio transmits telemetry frames over an RFD900x-class UART
// radio link, grounded on the original source's rfd900x.rs driver
// (spec.md §4.1 "Radio transmit format", §6).
package radio

import (
	"encoding/binary"
	"fmt"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
	"go.bug.st/serial"
)

// SyncWord prefixes every telemetry frame on the wire (spec.md §4.1).
const SyncWord uint32 = 0x3E5D5967

// Transport is the minimal UART write surface a radio link needs.
type Transport interface {
	Write(p []byte) (int, error)
}

// Radio implements flight.Radio over a serial transport.
type Radio struct {
	port Transport
}

// Open configures a go.bug.st/serial port at 9600 baud, 8N1, matching
// the RFD900x's fixed link settings.
func Open(device string) (*Radio, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: 9600,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("radio: open %s: %w", device, err)
	}
	return &Radio{port: port}, nil
}

// NewWithTransport wraps an already-open transport (used by tests and
// by alternate link hardware).
func NewWithTransport(t Transport) *Radio {
	return &Radio{port: t}
}

// Transmit implements flight.Radio: writes the 4-byte little-endian
// sync word followed by the packet's 68-byte payload, as two separate
// transport writes per spec.md §4.1 ("emitted as a separate transport
// write").
func (r *Radio) Transmit(p *flightpacket.Packet) error {
	var sync [4]byte
	binary.LittleEndian.PutUint32(sync[:], SyncWord)
	if _, err := r.port.Write(sync[:]); err != nil {
		return fmt.Errorf("radio: write sync word: %w", err)
	}

	payload := p.EncodeLE()
	if _, err := r.port.Write(payload[:]); err != nil {
		return fmt.Errorf("radio: write payload: %w", err)
	}
	return nil
}
