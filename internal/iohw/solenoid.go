// Package iohw adapts periph.io GPIO/I2C/SPI handles into the fill
// station's and flight computer's actuator/sensor contracts: solenoid
// valves, the ball valve, the MAV servo, igniters, the ADC readers,
// and the FRAM scratchpad. Grounded on the original source's
// components/*.rs GPIO-line wiring (spec.md §4.3, §3).
package iohw

import (
	"fmt"
	"sync/atomic"

	"github.com/cornellrocketryteam/control-core/internal/config"
	"periph.io/x/periph/conn/gpio"
)

// SolenoidValve drives a two-line solenoid: a control output and a
// continuity/signal input, per the original source's SolenoidValve.
//
// Actuation polarity depends on LinePull:
//   - NormallyClosed: actuated == HIGH
//   - NormallyOpen:   actuated == LOW
type SolenoidValve struct {
	name         string
	control      gpio.PinOut
	signal       gpio.PinIn
	pull         config.LinePull
	invertedRead bool
	currentLevel atomic.Bool
}

// NewSolenoidValve wires a solenoid and drives its control line to the
// safe rest level for its LinePull.
func NewSolenoidValve(name string, control gpio.PinOut, signal gpio.PinIn, pull config.LinePull, invertedRead bool) (*SolenoidValve, error) {
	restLevel := pull == config.NormallyOpen // NO rests HIGH (actuated=LOW)
	if err := control.Out(gpio.Level(restLevel)); err != nil {
		return nil, fmt.Errorf("solenoid %s: initial level: %w", name, err)
	}
	sv := &SolenoidValve{name: name, control: control, signal: signal, pull: pull, invertedRead: invertedRead}
	sv.currentLevel.Store(restLevel)
	return sv, nil
}

// Actuate moves the valve to the actuated (enable=true) or rest
// (enable=false) state.
func (s *SolenoidValve) Actuate(enable bool) error {
	var level bool
	switch s.pull {
	case config.NormallyClosed:
		level = enable
	case config.NormallyOpen:
		level = !enable
	}
	if err := s.control.Out(gpio.Level(level)); err != nil {
		return fmt.Errorf("solenoid %s: actuate: %w", s.name, err)
	}
	s.currentLevel.Store(level)
	return nil
}

// Continuity reports the raw signal-line read.
func (s *SolenoidValve) Continuity() bool {
	return bool(s.signal.Read())
}

// IsActuated reports the software-tracked actuation state rather than
// re-reading the output pin, mirroring the original driver's rationale
// that output-pin readback is unreliable on some platforms. SV5's
// documented inverted-wiring quirk (spec.md §4.2, §9; confirmed
// against original_source/fill-station/src/csv_logger.rs's `!sv5_act`)
// is applied here, since it's the valve's actuated state the quirk
// inverts, not its continuity reading.
func (s *SolenoidValve) IsActuated() bool {
	level := s.currentLevel.Load()
	var actuated bool
	switch s.pull {
	case config.NormallyClosed:
		actuated = level
	case config.NormallyOpen:
		actuated = !level
	}
	if s.invertedRead {
		return !actuated
	}
	return actuated
}

// Name returns the solenoid's configured identifier (sv1..sv5).
func (s *SolenoidValve) Name() string { return s.name }
