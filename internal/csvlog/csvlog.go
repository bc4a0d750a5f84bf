// Package csvlog writes the fill station's 10 Hz CSV telemetry log
// (spec.md §4.6, §6), grounded on the original source's data logging
// task and on the shared iohw.Hardware/iohw.AdcReadings handles.
package csvlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cornellrocketryteam/control-core/internal/iohw"
)

const (
	tickInterval  = 100 * time.Millisecond
	fsyncInterval = 100 // samples, ~10s at 10Hz
)

// solenoidOrder fixes the five SV columns' order (spec.md §6 CSV schema).
// SV5's inverted-actuation quirk (spec.md §4.2, §4.6) is applied once,
// in SolenoidValve.IsActuated, so it needs no special handling here.
var solenoidOrder = []string{"sv1", "sv2", "sv3", "sv4", "sv5"}

var adcChannelOrder = []struct {
	adc string
	ch  int
}{
	{"adc1", 0}, {"adc1", 1}, {"adc1", 2}, {"adc1", 3},
	{"adc2", 0}, {"adc2", 1}, {"adc2", 2}, {"adc2", 3},
}

var header = buildHeader()

func buildHeader() []string {
	cols := []string{"Loop", "Timestamp_ms", "MAV_Angle", "MAV_Pulse_US", "Igniter1_Active", "Igniter2_Active"}
	for _, sv := range solenoidOrder {
		cols = append(cols, fmt.Sprintf("%s_Actuated", toColName(sv)), fmt.Sprintf("%s_Cont", toColName(sv)))
	}
	for _, c := range adcChannelOrder {
		cols = append(cols, fmt.Sprintf("%s_%d_Raw", toColName(c.adc), c.ch), fmt.Sprintf("%s_%d_Scaled", toColName(c.adc), c.ch))
	}
	return cols
}

func toColName(s string) string {
	// "sv1" -> "SV1", "adc1" -> "ADC1"
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Logger samples shared hardware/ADC state into a CSV file at 10 Hz.
type Logger struct {
	HW  *iohw.Hardware
	Adc *iohw.AdcReadings

	f       *os.File
	w       *csv.Writer
	logger  *log.Logger
	samples int
}

// Open creates (or truncates) the CSV file at path and writes the
// header line immediately.
func Open(path string, hw *iohw.Hardware, adc *iohw.AdcReadings, logger *log.Logger) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csvlog: create %s: %w", path, err)
	}
	l := &Logger{HW: hw, Adc: adc, f: f, w: csv.NewWriter(f), logger: logger}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("csvlog: write header: %w", err)
	}
	l.w.Flush()
	return l, nil
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	if l.f == nil {
		return nil
	}
	l.w.Flush()
	return l.f.Close()
}

// Run drives the 10 Hz sample loop until ctx is canceled, fsyncing
// every fsyncInterval samples (spec.md §4.6).
func (l *Logger) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	cycle := uint64(0)
	for {
		select {
		case <-ctx.Done():
			return
		case tickStart := <-ticker.C:
			if err := l.writeSample(cycle, tickStart); err != nil {
				l.logger.Printf("csvlog: write sample: %v", err)
			}
			cycle++
			if overrun := time.Since(tickStart) - tickInterval; overrun > 0 {
				l.logger.Printf("csvlog: tick overrun by %v, starting next tick immediately", overrun)
			}
		}
	}
}

func (l *Logger) writeSample(cycle uint64, tickStart time.Time) error {
	row := make([]string, 0, len(header))
	row = append(row, fmt.Sprintf("%d", cycle), fmt.Sprintf("%d", tickStart.UnixMilli()))

	row = append(row, fmt.Sprintf("%.2f", l.HW.Mav.AngleDeg()), fmt.Sprintf("%d", l.HW.Mav.PulseUS()))

	for _, id := range []int{1, 2} {
		active := false
		if ig, ok := l.HW.Igniter(id); ok {
			active = ig.IsIgniting()
		}
		row = append(row, boolField(active))
	}

	for _, name := range solenoidOrder {
		sv, ok := l.HW.Solenoid(name)
		if !ok {
			row = append(row, "N/A", "N/A")
			continue
		}
		row = append(row, boolField(sv.IsActuated()), boolField(sv.Continuity()))
	}

	_, adcValid := l.Adc.Tick()
	for _, c := range adcChannelOrder {
		key := fmt.Sprintf("%s:%d", c.adc, c.ch)
		reading, ok := l.Adc.Get(key)
		if !adcValid || !ok {
			row = append(row, "N/A", "N/A")
			continue
		}
		row = append(row, fmt.Sprintf("%d", reading.Raw), fmt.Sprintf("%.4f", reading.Scaled))
	}

	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return err
	}

	l.samples++
	if l.samples%fsyncInterval == 0 {
		if err := l.f.Sync(); err != nil {
			return fmt.Errorf("fsync: %w", err)
		}
	}
	return nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
