package iohw

import (
	"testing"

	"github.com/cornellrocketryteam/control-core/internal/config"
)

func fakePWM() (*PWMPin, *int, *int, *bool) {
	duty, period := 0, 0
	enabled := false
	pin := &PWMPin{
		SetDutyNS:   func(ns uint32) error { duty = int(ns); return nil },
		SetPeriodNS: func(ns uint32) error { period = int(ns); return nil },
		Enable:      func(e bool) error { enabled = e; return nil },
	}
	return pin, &duty, &period, &enabled
}

func testMavConfig() config.MavConfig {
	return config.MavConfig{
		PeriodUS: 20000, OpenUS: 2000, CloseUS: 1000, NeutralUS: 1500,
		MinUS: 1000, MaxUS: 2000,
	}
}

func TestMavInitializesToNeutral(t *testing.T) {
	pin, duty, _, enabled := fakePWM()
	mav, err := NewMav(*pin, testMavConfig())
	if err != nil {
		t.Fatalf("NewMav: %v", err)
	}
	if *duty != 1500*1000 {
		t.Fatalf("initial duty = %d ns, want %d", *duty, 1500*1000)
	}
	if !*enabled {
		t.Fatal("expected PWM enabled after init")
	}
	if mav.PulseUS() != 1500 {
		t.Fatalf("PulseUS() = %d, want 1500", mav.PulseUS())
	}
}

func TestMavOpenCloseIsOpen(t *testing.T) {
	pin, _, _, _ := fakePWM()
	mav, _ := NewMav(*pin, testMavConfig())

	if mav.IsOpen() {
		t.Fatal("neutral MAV should not report open")
	}
	if err := mav.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !mav.IsOpen() {
		t.Fatal("expected IsOpen true after Open()")
	}
	if err := mav.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if mav.IsOpen() {
		t.Fatal("expected IsOpen false after Close()")
	}
}

func TestMavSetAngleMapsCloseToOpen(t *testing.T) {
	pin, duty, _, _ := fakePWM()
	mav, _ := NewMav(*pin, testMavConfig())

	if err := mav.SetAngle(45); err != nil {
		t.Fatalf("SetAngle: %v", err)
	}
	// close_us=1000, open_us=2000: us = 1000 + 45*(2000-1000)/90
	wantUS := 1000 + 45*(1000.0/90.0)
	if *duty != int(wantUS)*1000 {
		t.Fatalf("duty = %d ns, want ~%d ns", *duty, int(wantUS)*1000)
	}
	if got := mav.AngleDeg(); got < 44.9 || got > 45.1 {
		t.Fatalf("AngleDeg() = %v, want ~45", got)
	}
}

func TestMavSetAngleOutOfRangeRejected(t *testing.T) {
	pin, duty, _, _ := fakePWM()
	mav, _ := NewMav(*pin, testMavConfig())

	before := *duty
	if err := mav.SetAngle(999); err == nil {
		t.Fatal("expected out-of-range angle to be rejected")
	}
	if *duty != before {
		t.Fatalf("duty changed after rejected SetAngle: before=%d after=%d", before, *duty)
	}
}
