package iohw

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/cornellrocketryteam/control-core/internal/config"
	"periph.io/x/periph/conn/i2c"
)

// ADS1015 register addresses and config bits, grounded on the
// original source's ads1015.rs driver.
const (
	ads1015RegConversion = 0x00
	ads1015RegConfig     = 0x01

	ads1015OsSingle       = 0x8000
	ads1015MuxShift       = 12
	ads1015ModeSingle     = 0x0100
	ads1015DrShift        = 5
	ads1015Dr1600sps      = 0b100
	ads1015CompQueDisable = 0x0003
	ads1015PgaTwoThirds   = 0b000 << 9

	// ads1015MuxSingleBase is the MUX field for single-ended channel N,
	// where N in [0,3] ORs onto this base (0b100 | N).
	ads1015MuxSingleBase = 0b100
)

// ads1015LsbVolts is the ADS1015's volts-per-count for the configured
// PGA full-scale range (ads1015PgaTwoThirds, ±6.144V): datasheet Table
// 3's LSB size for that range is FSR/2048 over the 12-bit signed code.
const ads1015LsbVolts = 6.144 / 2048

// ChannelVoltage converts a raw ADC register value into volts using the
// device's configured PGA gain (spec.md §3, §4.3: voltage = raw *
// lsb_size(gain)).
func ChannelVoltage(raw int16) float64 {
	return float64(raw) * ads1015LsbVolts
}

// Ads1015 is a 4-channel I2C ADC, grounded on the original source's
// ads1015.rs single-shot conversion driver.
type Ads1015 struct {
	bus  i2c.Bus
	addr uint16
}

// NewAds1015 wires an ADS1015 at the given bus/address.
func NewAds1015(bus i2c.Bus, addr uint16) *Ads1015 {
	return &Ads1015{bus: bus, addr: addr}
}

// ReadRawChannel triggers a single-shot conversion on a single-ended
// channel (0-3) and returns the signed 12-bit result, left-justified
// in a 16-bit register per the ADS1015 datasheet.
func (a *Ads1015) ReadRawChannel(channel int) (int16, error) {
	if channel < 0 || channel > 3 {
		return 0, fmt.Errorf("ads1015: channel %d out of range [0,3]", channel)
	}

	mux := uint16(ads1015MuxSingleBase|channel) << ads1015MuxShift
	cfg := ads1015OsSingle | mux | ads1015PgaTwoThirds | ads1015ModeSingle |
		(uint16(ads1015Dr1600sps) << ads1015DrShift) | ads1015CompQueDisable

	var cfgBytes [3]byte
	cfgBytes[0] = ads1015RegConfig
	binary.BigEndian.PutUint16(cfgBytes[1:3], cfg)
	if err := a.bus.Tx(a.addr, cfgBytes[:], nil); err != nil {
		return 0, fmt.Errorf("ads1015: start conversion: %w", err)
	}

	var raw [2]byte
	if err := a.bus.Tx(a.addr, []byte{ads1015RegConversion}, raw[:]); err != nil {
		return 0, fmt.Errorf("ads1015: read conversion: %w", err)
	}

	// top 12 bits of the 16-bit register hold the signed result.
	return int16(binary.BigEndian.Uint16(raw[:])) >> 4, nil
}

// ChannelScale maps a raw ADC register value into an engineering unit
// via the affine transform configured in hardware.yaml (spec.md §4.3).
func ChannelScale(raw int16, ch config.AdcChannelConfig) float64 {
	return float64(raw)*ch.Scale + ch.Offset
}

// AdcReadings is the shared, RWMutex-protected result of the most
// recent ADC monitor sweep (spec.md §4.3, §5). A missing/invalid
// sample is represented by Valid=false so downstream consumers (the
// command dispatcher's streaming response, the CSV logger) can render
// "N/A" instead of a stale number.
type AdcReadings struct {
	mu          sync.RWMutex
	values      map[string]Reading
	timestampMS int64
	valid       bool
}

// Reading is one ADC channel's latest raw/voltage/scaled value.
type Reading struct {
	Label   string
	Raw     int16
	Voltage float64
	Scaled  float64
	Valid   bool
}

// NewAdcReadings returns an empty, ready-to-use readings table.
func NewAdcReadings() *AdcReadings {
	return &AdcReadings{values: make(map[string]Reading)}
}

// Set stores the latest reading for a channel key (e.g. "adc1:0").
func (r *AdcReadings) Set(key string, reading Reading) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = reading
}

// Get returns the latest reading for a channel key, and whether one
// has ever been recorded.
func (r *AdcReadings) Get(key string) (Reading, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// Snapshot returns a copy of every tracked reading, keyed by channel.
func (r *AdcReadings) Snapshot() map[string]Reading {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Reading, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// SetTick atomically replaces every channel reading for one sweep and
// records whether the sweep was fully valid (spec.md §4.3, testable
// property 7: "valid=true iff all 8 channel reads succeeded on the
// same attempt after <= MAX_RETRIES tries"). timestampMS advances
// whether or not the sweep was valid.
func (r *AdcReadings) SetTick(timestampMS int64, valid bool, channels map[string]Reading) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timestampMS = timestampMS
	r.valid = valid
	for k, v := range channels {
		r.values[k] = v
	}
}

// Tick returns the most recent sweep's timestamp and overall validity.
func (r *AdcReadings) Tick() (timestampMS int64, valid bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.timestampMS, r.valid
}
