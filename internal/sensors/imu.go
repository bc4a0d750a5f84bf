package sensors

import (
	"fmt"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
	"periph.io/x/periph/conn/i2c"
)

// IMU wraps an ICM-42688-P class accelerometer/gyroscope over I2C.
type IMU struct {
	bus  i2c.Bus
	addr uint16
}

const icm42688DataReg = 0x1F

func NewIMU(bus i2c.Bus, addr uint16) *IMU {
	return &IMU{bus: bus, addr: addr}
}

func (m *IMU) Init() error {
	if err := m.bus.Tx(m.addr, []byte{0x76, 0x00}, nil); err != nil {
		return fmt.Errorf("imu power config: %w", err)
	}
	return nil
}

func (m *IMU) Read(p *flightpacket.Packet) error {
	raw := make([]byte, 12)
	if err := m.bus.Tx(m.addr, []byte{icm42688DataReg}, raw); err != nil {
		return fmt.Errorf("imu burst read: %w", err)
	}

	const accelScale = 9.80665 / 2048.0 // +-16g full scale, 16-bit, in m/s^2
	const gyroScale = 2000.0 / 32768.0 // +-2000dps full scale, 16-bit

	p.AccelX = float32(decode16(raw[0:2])) * accelScale
	p.AccelY = float32(decode16(raw[2:4])) * accelScale
	p.AccelZ = float32(decode16(raw[4:6])) * accelScale
	p.GyroX = float32(decode16(raw[6:8])) * gyroScale
	p.GyroY = float32(decode16(raw[8:10])) * gyroScale
	p.GyroZ = float32(decode16(raw[10:12])) * gyroScale
	return nil
}

func decode16(b []byte) int16 {
	return int16(uint16(b[0])<<8 | uint16(b[1]))
}
