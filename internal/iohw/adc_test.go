package iohw

import (
	"testing"

	"github.com/cornellrocketryteam/control-core/internal/config"
)

func TestChannelScaleAffineTransform(t *testing.T) {
	ch := config.AdcChannelConfig{Channel: 0, Scale: 0.909754, Offset: 5.08926, Label: "PT1500"}
	got := ChannelScale(100, ch)
	want := 100*0.909754 + 5.08926
	if got != want {
		t.Fatalf("ChannelScale = %v, want %v", got, want)
	}
}

func TestAdcReadingsMissingIsInvalid(t *testing.T) {
	r := NewAdcReadings()
	if _, ok := r.Get("adc1:0"); ok {
		t.Fatal("expected no reading before any Set")
	}

	r.Set("adc1:0", Reading{Label: "PT1500", Raw: 42, Scaled: 1.23, Valid: true})
	got, ok := r.Get("adc1:0")
	if !ok || !got.Valid || got.Raw != 42 {
		t.Fatalf("Get after Set = %+v, ok=%v", got, ok)
	}

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot len = %d, want 1", len(snap))
	}
}

func TestAdcReadingsInvalidSampleFlagged(t *testing.T) {
	r := NewAdcReadings()
	r.Set("adc2:1", Reading{Label: "LOADCELL", Valid: false})
	got, ok := r.Get("adc2:1")
	if !ok {
		t.Fatal("expected a recorded (if invalid) reading")
	}
	if got.Valid {
		t.Fatal("expected Valid=false to be preserved")
	}
}

func TestAdcReadingsSetTickAdvancesTimestampRegardlessOfValidity(t *testing.T) {
	r := NewAdcReadings()
	r.SetTick(1000, false, map[string]Reading{"adc1:0": {Label: "PT1500", Valid: false}})
	ts, valid := r.Tick()
	if ts != 1000 || valid {
		t.Fatalf("Tick() = (%d, %v), want (1000, false)", ts, valid)
	}

	r.SetTick(1100, true, map[string]Reading{"adc1:0": {Label: "PT1500", Raw: 10, Valid: true}})
	ts, valid = r.Tick()
	if ts != 1100 || !valid {
		t.Fatalf("Tick() = (%d, %v), want (1100, true)", ts, valid)
	}
}
