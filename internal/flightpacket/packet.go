// Package flightpacket defines the single radio-telemetry snapshot
// shared by the flight computer's sensor readers, FSM, and radio
// transmitter (spec.md §3, Packet).
package flightpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FlightMode enumerates the FSM's modes. Encoded as u32 on the wire
// and in the FRAM scratchpad.
type FlightMode uint32

const (
	Startup FlightMode = iota
	Standby
	Ascent
	Coast
	DrogueDeployed
	MainDeployed
	Fault
)

func (m FlightMode) String() string {
	switch m {
	case Startup:
		return "Startup"
	case Standby:
		return "Standby"
	case Ascent:
		return "Ascent"
	case Coast:
		return "Coast"
	case DrogueDeployed:
		return "DrogueDeployed"
	case MainDeployed:
		return "MainDeployed"
	case Fault:
		return "Fault"
	default:
		return fmt.Sprintf("FlightMode(%d)", uint32(m))
	}
}

// Packet is the single owned telemetry snapshot, mutated in place by
// sensor readers and transmitted whole over the radio every cycle.
// Field order is the wire order — see EncodeLE.
type Packet struct {
	FlightMode FlightMode

	Pressure    float32
	Temperature float32
	Altitude    float32

	Latitude      float32
	Longitude     float32
	NumSats       uint32
	GPSTimestamp  float32

	MagX float32
	MagY float32
	MagZ float32

	AccelX float32 // m/s^2
	AccelY float32
	AccelZ float32

	GyroX float32 // deg/s
	GyroY float32
	GyroZ float32
}

// PayloadSize is the exact wire size of the packet body, per spec.md §3/§6:
// 2 u32 fields (flight_mode, num_sats) + 15 f32 fields = 8 + 60 = 68 bytes.
const PayloadSize = 68

// EncodeLE serializes the packet into exactly PayloadSize little-endian
// bytes, in the field order fixed by spec.md §3/§6.
func (p *Packet) EncodeLE() [PayloadSize]byte {
	var buf [PayloadSize]byte
	w := bytes.NewBuffer(buf[:0])

	binary.Write(w, binary.LittleEndian, uint32(p.FlightMode))
	binary.Write(w, binary.LittleEndian, p.Pressure)
	binary.Write(w, binary.LittleEndian, p.Temperature)
	binary.Write(w, binary.LittleEndian, p.Altitude)
	binary.Write(w, binary.LittleEndian, p.Latitude)
	binary.Write(w, binary.LittleEndian, p.Longitude)
	binary.Write(w, binary.LittleEndian, uint32(p.NumSats))
	binary.Write(w, binary.LittleEndian, p.GPSTimestamp)
	binary.Write(w, binary.LittleEndian, p.MagX)
	binary.Write(w, binary.LittleEndian, p.MagY)
	binary.Write(w, binary.LittleEndian, p.MagZ)
	binary.Write(w, binary.LittleEndian, p.AccelX)
	binary.Write(w, binary.LittleEndian, p.AccelY)
	binary.Write(w, binary.LittleEndian, p.AccelZ)
	binary.Write(w, binary.LittleEndian, p.GyroX)
	binary.Write(w, binary.LittleEndian, p.GyroY)
	binary.Write(w, binary.LittleEndian, p.GyroZ)

	var out [PayloadSize]byte
	copy(out[:], w.Bytes())
	return out
}

// Snapshot returns a copy of the packet, safe to hand to the radio
// transmitter without racing the next sensor-read cycle (there is only
// one mutator goroutine, but a copy keeps the transmit path from
// depending on that invariant holding forever).
func (p *Packet) Snapshot() Packet {
	return *p
}
