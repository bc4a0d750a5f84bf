package iohw

import "periph.io/x/periph/conn/gpio"

// DiscreteInputs reads the flight computer's three discrete GPIO
// signals directly off their lines, implementing flight.Inputs.
// Grounded on the original source's FlightLoop.key_armed/
// umbilical_state/umbilical_launch fields, which the Go port reads
// live off hardware each cycle rather than tracking as mutable struct
// fields the way the Rust port does.
type DiscreteInputs struct {
	KeyArmedPin  gpio.PinIn
	UmbilicalPin gpio.PinIn
	LaunchPin    gpio.PinIn
}

func (d *DiscreteInputs) KeyArmed() bool           { return bool(d.KeyArmedPin.Read()) }
func (d *DiscreteInputs) UmbilicalConnected() bool { return bool(d.UmbilicalPin.Read()) }
func (d *DiscreteInputs) LaunchCommanded() bool    { return bool(d.LaunchPin.Read()) }

// StatusLED toggles a heartbeat GPIO once per cycle, mirroring the
// original source's main.rs LED toggle inside the flight loop.
type StatusLED struct {
	Pin gpio.PinOut
	on  bool
}

func (s *StatusLED) Toggle() error {
	s.on = !s.on
	return s.Pin.Out(gpio.Level(s.on))
}
