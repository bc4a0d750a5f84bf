// Package adcmonitor runs the fill station's 10 Hz ADC sampling loop:
// two 4-channel ADS1015s, per-channel retry-with-backoff, and
// per-channel affine scaling into the shared readings table (spec.md
// §4.3), grounded on the original source's adc_monitor task and on
// iohw.Ads1015/iohw.AdcReadings.
package adcmonitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cornellrocketryteam/control-core/internal/config"
	"github.com/cornellrocketryteam/control-core/internal/iohw"
)

const (
	tickInterval = 100 * time.Millisecond
	maxRetries   = 5
	retryBackoff = 10 * time.Millisecond
)

// Channel reads one raw ADC sample, satisfied by *iohw.Ads1015.
type Channel interface {
	ReadRawChannel(channel int) (int16, error)
}

// Monitor owns the two ADC handles and the shared readings table they
// publish into.
type Monitor struct {
	Adc1       Channel
	Adc2       Channel
	Adc1Config config.AdcConfig
	Adc2Config config.AdcConfig
	Readings   *iohw.AdcReadings
	Logger     *log.Logger

	// now is overridable in tests to avoid depending on wall-clock
	// timing for tick-overrun assertions.
	now func() time.Time
}

// New wires a Monitor against its two ADC handles and shared table.
func New(adc1, adc2 Channel, adc1Cfg, adc2Cfg config.AdcConfig, readings *iohw.AdcReadings, logger *log.Logger) *Monitor {
	return &Monitor{
		Adc1: adc1, Adc2: adc2,
		Adc1Config: adc1Cfg, Adc2Config: adc2Cfg,
		Readings: readings, Logger: logger,
		now: time.Now,
	}
}

// Run drives the 10 Hz sweep until ctx is canceled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case tickStart := <-ticker.C:
			m.sweep(tickStart)
			if overrun := m.now().Sub(tickStart) - tickInterval; overrun > 0 {
				m.Logger.Printf("adc monitor: tick overrun by %v, starting next tick immediately", overrun)
			}
		}
	}
}

// sweep performs one full two-ADC, eight-channel read cycle and
// publishes the result (spec.md §4.3 steps 2-5).
func (m *Monitor) sweep(tickStart time.Time) {
	readings := make(map[string]iohw.Reading, 8)
	allValid := true

	for _, a := range []struct {
		label string
		adc   Channel
		cfg   config.AdcConfig
	}{
		{"adc1", m.Adc1, m.Adc1Config},
		{"adc2", m.Adc2, m.Adc2Config},
	} {
		for _, ch := range a.cfg.Channels {
			raw, err := readWithRetry(a.adc, ch.Channel)
			key := fmt.Sprintf("%s:%d", a.label, ch.Channel)
			if err != nil {
				allValid = false
				readings[key] = iohw.Reading{Label: ch.Label, Valid: false}
				m.Logger.Printf("adc monitor: %s channel %d exhausted retries: %v", a.label, ch.Channel, err)
				continue
			}
			readings[key] = iohw.Reading{
				Label:   ch.Label,
				Raw:     raw,
				Voltage: iohw.ChannelVoltage(raw),
				Scaled:  iohw.ChannelScale(raw, ch),
				Valid:   true,
			}
		}
	}

	m.Readings.SetTick(tickStart.UnixMilli(), allValid, readings)
}

// readWithRetry retries a single channel read up to maxRetries times
// with a fixed backoff (spec.md §4.3 step 4).
func readWithRetry(adc Channel, channel int) (int16, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		raw, err := adc.ReadRawChannel(channel)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if attempt < maxRetries {
			time.Sleep(retryBackoff)
		}
	}
	return 0, lastErr
}
