package sensors

import (
	"fmt"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
	"periph.io/x/periph/conn/i2c"
)

// Magnetometer wraps an AK09915-class 3-axis magnetometer over I2C.
type Magnetometer struct {
	bus  i2c.Bus
	addr uint16
}

const ak09915DataReg = 0x11

func NewMagnetometer(bus i2c.Bus, addr uint16) *Magnetometer {
	return &Magnetometer{bus: bus, addr: addr}
}

func (m *Magnetometer) Init() error {
	if err := m.bus.Tx(m.addr, []byte{0x31, 0x08}, nil); err != nil {
		return fmt.Errorf("magnetometer mode set: %w", err)
	}
	return nil
}

func (m *Magnetometer) Read(p *flightpacket.Packet) error {
	raw := make([]byte, 6)
	if err := m.bus.Tx(m.addr, []byte{ak09915DataReg}, raw); err != nil {
		return fmt.Errorf("magnetometer burst read: %w", err)
	}

	const microTeslaPerLSB = 0.15

	p.MagX = float32(decode16(raw[0:2])) * microTeslaPerLSB
	p.MagY = float32(decode16(raw[2:4])) * microTeslaPerLSB
	p.MagZ = float32(decode16(raw[4:6])) * microTeslaPerLSB
	return nil
}
