package iohw

import (
	"testing"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
)

func TestBallValveSignalRefusedWhileOnOffHigh(t *testing.T) {
	onOff := &gpiotest.Pin{N: "on_off"}
	signal := &gpiotest.Pin{N: "signal"}
	bv, err := NewBallValve(onOff, signal)
	if err != nil {
		t.Fatalf("NewBallValve: %v", err)
	}

	if err := bv.SetOnOff(true); err != nil {
		t.Fatalf("SetOnOff: %v", err)
	}
	if err := bv.SetSignal(true); err == nil {
		t.Fatal("expected SetSignal to be refused while on_off is HIGH")
	}

	if err := bv.SetOnOff(false); err != nil {
		t.Fatalf("SetOnOff: %v", err)
	}
	if err := bv.SetSignal(true); err != nil {
		t.Fatalf("expected SetSignal to succeed once on_off is LOW: %v", err)
	}
	if signal.L != gpio.High {
		t.Fatalf("signal line = %v, want High", signal.L)
	}
}

func TestBallValveOpenSequenceTiming(t *testing.T) {
	onOff := &gpiotest.Pin{N: "on_off"}
	signal := &gpiotest.Pin{N: "signal"}
	bv, err := NewBallValve(onOff, signal)
	if err != nil {
		t.Fatalf("NewBallValve: %v", err)
	}

	start := time.Now()
	if err := bv.OpenSequence(); err != nil {
		t.Fatalf("OpenSequence: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < ballValveActuationTime {
		t.Fatalf("OpenSequence returned after %v, want at least %v", elapsed, ballValveActuationTime)
	}
	if signal.L != gpio.High {
		t.Fatalf("signal line after open = %v, want High", signal.L)
	}
	if onOff.L != gpio.Low {
		t.Fatalf("on_off line after sequence completes = %v, want Low", onOff.L)
	}
	if bv.OnOffHigh() {
		t.Fatal("expected on_off_high tracking to be false after sequence completes")
	}
}
