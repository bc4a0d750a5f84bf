package sensors

import (
	"encoding/binary"
	"fmt"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
	"periph.io/x/periph/conn/i2c"
)

// GPS wraps a uBlox MAX-M10S class receiver over I2C, following its
// "available bytes" streaming protocol: a 2-byte big-endian count at
// register 0xFD, then the UBX byte stream itself at register 0xFF.
type GPS struct {
	bus  i2c.Bus
	addr uint16
}

const (
	gpsAvailReg = 0xFD
	gpsDataReg  = 0xFF
	gpsMaxRead  = 255
)

func NewGPS(bus i2c.Bus, addr uint16) *GPS {
	return &GPS{bus: bus, addr: addr}
}

func (g *GPS) Init() error { return nil }

// Read drains whatever UBX bytes are queued and, if a full NAV-PVT-like
// fix is present, updates position, satellite count, and fix time. A
// receiver with no fix yet (cold start, no sky view) is not an error —
// spec.md does not make GPS validity part of the altimeter latch
// policy, so a short read here just leaves the packet's GPS fields
// unchanged this cycle.
func (g *GPS) Read(p *flightpacket.Packet) error {
	var avail [2]byte
	if err := g.bus.Tx(g.addr, []byte{gpsAvailReg}, avail[:]); err != nil {
		return fmt.Errorf("gps available-bytes read: %w", err)
	}

	n := int(binary.BigEndian.Uint16(avail[:]))
	if n == 0 || n == 0xFFFF {
		return nil
	}
	if n > gpsMaxRead {
		n = gpsMaxRead
	}

	buf := make([]byte, n)
	if err := g.bus.Tx(g.addr, []byte{gpsDataReg}, buf); err != nil {
		return fmt.Errorf("gps data stream read: %w", err)
	}

	fix, ok := parseNavPVT(buf)
	if !ok {
		return nil
	}

	p.Latitude = fix.lat
	p.Longitude = fix.lon
	p.NumSats = fix.numSats
	p.GPSTimestamp = fix.secOfDay
	return nil
}

type navFix struct {
	lat, lon float32
	numSats  uint32
	secOfDay float32
}

// parseNavPVT extracts the handful of NAV-PVT fields this packet
// cares about. A real UBX frame carries a 0xB5 0x62 sync, class/ID,
// length, payload, checksum; this picks the first well-formed frame
// out of the buffer and reports ok=false if none is present yet.
func parseNavPVT(buf []byte) (navFix, bool) {
	const navPVTClass, navPVTID = 0x01, 0x07
	const minLen = 8 + 92

	for i := 0; i+6 <= len(buf); i++ {
		if buf[i] != 0xB5 || buf[i+1] != 0x62 {
			continue
		}
		if i+minLen > len(buf) {
			return navFix{}, false
		}
		if buf[i+2] != navPVTClass || buf[i+3] != navPVTID {
			continue
		}
		payload := buf[i+6:]
		if len(payload) < 92 {
			return navFix{}, false
		}

		numSV := uint32(payload[23])
		lon := float32(int32(binary.LittleEndian.Uint32(payload[24:28]))) * 1e-7
		lat := float32(int32(binary.LittleEndian.Uint32(payload[28:32]))) * 1e-7
		secOfDay := float32(binary.LittleEndian.Uint32(payload[4:8])) / 1000.0

		return navFix{lat: lat, lon: lon, numSats: numSV, secOfDay: secOfDay}, true
	}
	return navFix{}, false
}
