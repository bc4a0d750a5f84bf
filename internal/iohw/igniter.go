package iohw

import (
	"fmt"
	"sync/atomic"

	"periph.io/x/periph/conn/gpio"
)

// Igniter drives one continuity-checked ignition channel, grounded on
// the original source's Igniter component.
type Igniter struct {
	name       string
	continuity gpio.PinIn
	signal     gpio.PinOut
	firing     atomic.Bool
}

// NewIgniter wires an igniter channel with its signal line held LOW.
func NewIgniter(name string, continuity gpio.PinIn, signal gpio.PinOut) (*Igniter, error) {
	if err := signal.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("igniter %s: init signal: %w", name, err)
	}
	return &Igniter{name: name, continuity: continuity, signal: signal}, nil
}

// HasContinuity reads the continuity-check line.
func (i *Igniter) HasContinuity() bool { return bool(i.continuity.Read()) }

// SetActuated drives the signal line and records the firing flag.
func (i *Igniter) SetActuated(enable bool) error {
	if err := i.signal.Out(gpio.Level(enable)); err != nil {
		return fmt.Errorf("igniter %s: set actuated: %w", i.name, err)
	}
	i.firing.Store(enable)
	return nil
}

// IsIgniting reports the firing flag.
func (i *Igniter) IsIgniting() bool { return i.firing.Load() }

// Name returns the igniter's configured identifier.
func (i *Igniter) Name() string { return i.name }
