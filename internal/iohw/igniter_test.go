package iohw

import (
	"testing"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
)

func TestIgniterFiringFlag(t *testing.T) {
	continuity := &gpiotest.Pin{N: "continuity", L: gpio.High}
	signal := &gpiotest.Pin{N: "signal"}

	ig, err := NewIgniter("igniter1", continuity, signal)
	if err != nil {
		t.Fatalf("NewIgniter: %v", err)
	}
	if ig.IsIgniting() {
		t.Fatal("igniter should not start firing")
	}
	if !ig.HasContinuity() {
		t.Fatal("expected continuity true")
	}

	if err := ig.SetActuated(true); err != nil {
		t.Fatalf("SetActuated: %v", err)
	}
	if !ig.IsIgniting() {
		t.Fatal("expected firing flag set after SetActuated(true)")
	}
	if signal.L != gpio.High {
		t.Fatalf("signal line = %v, want High", signal.L)
	}

	if err := ig.SetActuated(false); err != nil {
		t.Fatalf("SetActuated: %v", err)
	}
	if ig.IsIgniting() {
		t.Fatal("expected firing flag cleared after SetActuated(false)")
	}
}
