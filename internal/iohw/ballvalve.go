package iohw

import (
	"fmt"
	"sync/atomic"
	"time"

	"periph.io/x/periph/conn/gpio"
)

// ballValveActuationTime is how long ON_OFF is held high to drive the
// ball valve fully open or closed (spec.md §4.2).
const ballValveActuationTime = 3 * time.Second

// BallValve drives the fill line's motorized ball valve via a
// direction ("signal") line and a motion-enable ("on_off") line,
// grounded on the original source's BallValve open/close sequence.
type BallValve struct {
	onOff     gpio.PinOut
	signal    gpio.PinOut
	onOffHigh atomic.Bool
}

// NewBallValve wires a ball valve with both lines starting LOW.
func NewBallValve(onOff, signal gpio.PinOut) (*BallValve, error) {
	if err := onOff.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("ball valve: init on_off: %w", err)
	}
	if err := signal.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("ball valve: init signal: %w", err)
	}
	return &BallValve{onOff: onOff, signal: signal}, nil
}

// OpenSequence runs the full signal=HIGH, on_off pulse sequence
// (spec.md §4.2 "BVOpen"). It blocks for ballValveActuationTime and is
// expected to be run from a detached goroutine by the command dispatcher.
func (b *BallValve) OpenSequence() error {
	return b.runSequence(true)
}

// CloseSequence is OpenSequence's mirror (spec.md §4.2 "BVClose").
func (b *BallValve) CloseSequence() error {
	return b.runSequence(false)
}

func (b *BallValve) runSequence(open bool) error {
	if err := b.signal.Out(gpio.Level(open)); err != nil {
		return fmt.Errorf("ball valve: set signal: %w", err)
	}
	if err := b.onOff.Out(gpio.High); err != nil {
		return fmt.Errorf("ball valve: raise on_off: %w", err)
	}
	b.onOffHigh.Store(true)
	time.Sleep(ballValveActuationTime)
	if err := b.onOff.Out(gpio.Low); err != nil {
		return fmt.Errorf("ball valve: lower on_off: %w", err)
	}
	b.onOffHigh.Store(false)
	return nil
}

// SetSignal sets the direction line directly, refusing the change
// while on_off is HIGH (spec.md §4.2's documented refusal).
func (b *BallValve) SetSignal(high bool) error {
	if b.onOffHigh.Load() {
		return fmt.Errorf("ball valve: cannot change signal while on_off is HIGH")
	}
	return b.signal.Out(gpio.Level(high))
}

// SetOnOff sets the motion-enable line directly, with no interlock —
// spec.md §4.2 only documents the refusal for the reverse direction
// (changing Signal while OnOff is HIGH).
func (b *BallValve) SetOnOff(high bool) error {
	if err := b.onOff.Out(gpio.Level(high)); err != nil {
		return err
	}
	b.onOffHigh.Store(high)
	return nil
}

// OnOffHigh reports the software-tracked on_off line state.
func (b *BallValve) OnOffHigh() bool { return b.onOffHigh.Load() }
