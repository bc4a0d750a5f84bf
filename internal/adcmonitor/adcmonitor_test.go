package adcmonitor

import (
	"errors"
	"log"
	"testing"
	"time"

	"github.com/cornellrocketryteam/control-core/internal/config"
	"github.com/cornellrocketryteam/control-core/internal/iohw"
)

type scriptedChannel struct {
	// errsBeforeSuccess is consumed per call to ReadRawChannel,
	// regardless of channel number, to keep the retry tests simple.
	errsBeforeSuccess int
	calls             int
	value             int16
}

func (s *scriptedChannel) ReadRawChannel(channel int) (int16, error) {
	s.calls++
	if s.calls <= s.errsBeforeSuccess {
		return 0, errors.New("bus error")
	}
	return s.value, nil
}

func discardLogger() *log.Logger { return log.New(discardWriter{}, "", 0) }

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func oneChannelConfig() config.AdcConfig {
	return config.AdcConfig{
		Channels: []config.AdcChannelConfig{
			{Channel: 0, Scale: 1, Offset: 0, Label: "PT1500"},
		},
	}
}

// TestSweepRetriesThenSucceeds exercises scenario S6's first half: 4
// consecutive bus errors then success yields valid=true.
func TestSweepRetriesThenSucceeds(t *testing.T) {
	adc1 := &scriptedChannel{errsBeforeSuccess: 4, value: 100}
	adc2 := &scriptedChannel{value: 50}
	readings := iohw.NewAdcReadings()

	m := New(adc1, adc2, oneChannelConfig(), oneChannelConfig(), readings, discardLogger())
	before, _ := readings.Tick()
	m.sweep(time.UnixMilli(5000))

	ts, valid := readings.Tick()
	if !valid {
		t.Fatal("expected valid=true after recovering within retry budget")
	}
	if ts == before {
		t.Fatal("expected timestamp to advance")
	}
	if adc1.calls != 5 {
		t.Fatalf("adc1 calls = %d, want 5 (4 failures + 1 success)", adc1.calls)
	}

	r, ok := readings.Get("adc1:0")
	if !ok || !r.Valid || r.Raw != 100 {
		t.Fatalf("adc1:0 reading = %+v, ok=%v", r, ok)
	}
}

// TestSweepExhaustsRetriesAndInvalidates exercises scenario S6's
// second half: every attempt fails, so the sweep is invalid overall
// but the timestamp still advances (spec.md §4.3 step 4).
func TestSweepExhaustsRetriesAndInvalidates(t *testing.T) {
	adc1 := &scriptedChannel{errsBeforeSuccess: maxRetries + 1, value: 100}
	adc2 := &scriptedChannel{value: 50}
	readings := iohw.NewAdcReadings()

	m := New(adc1, adc2, oneChannelConfig(), oneChannelConfig(), readings, discardLogger())
	m.sweep(time.UnixMilli(9000))

	ts, valid := readings.Tick()
	if valid {
		t.Fatal("expected valid=false once a channel exhausts its retry budget")
	}
	if ts != 9000 {
		t.Fatalf("timestamp = %d, want 9000 (advances regardless of validity)", ts)
	}

	r, ok := readings.Get("adc1:0")
	if !ok || r.Valid {
		t.Fatalf("adc1:0 reading = %+v, ok=%v, want Valid=false", r, ok)
	}
}

// TestSweepOneBadChannelInvalidatesWholeTick asserts property 7:
// valid is an AND across every channel in the sweep, not per-channel.
func TestSweepOneBadChannelInvalidatesWholeTick(t *testing.T) {
	adc1 := &scriptedChannel{value: 1}
	adc2 := &scriptedChannel{errsBeforeSuccess: maxRetries + 1}
	readings := iohw.NewAdcReadings()

	m := New(adc1, adc2, oneChannelConfig(), oneChannelConfig(), readings, discardLogger())
	m.sweep(time.UnixMilli(1000))

	_, valid := readings.Tick()
	if valid {
		t.Fatal("one failing channel should invalidate the whole tick")
	}

	r1, _ := readings.Get("adc1:0")
	if !r1.Valid {
		t.Fatal("adc1:0 individually succeeded and should still report Valid=true")
	}
}
