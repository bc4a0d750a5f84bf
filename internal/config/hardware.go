package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LinePull describes a solenoid's rest state, per spec.md §3.
type LinePull string

const (
	NormallyOpen   LinePull = "NO"
	NormallyClosed LinePull = "NC"
)

// SolenoidConfig describes one solenoid valve's wiring.
type SolenoidConfig struct {
	Name         string   `yaml:"name"`
	Pull         LinePull `yaml:"pull"`
	ControlLine  string   `yaml:"control_line"`
	SignalLine   string   `yaml:"signal_line"`
	InvertedRead bool     `yaml:"inverted_read"` // the SV5 quirk from spec.md §4.2
}

// BallValveConfig describes the single ball valve's wiring.
type BallValveConfig struct {
	OnOffLine string `yaml:"on_off_line"`
	SignalLine string `yaml:"signal_line"`
}

// MavConfig describes the servo-driven MAV.
type MavConfig struct {
	PWMChannel string  `yaml:"pwm_channel"`
	PeriodUS   int     `yaml:"period_us"`
	OpenUS     int     `yaml:"open_us"`
	CloseUS    int     `yaml:"close_us"`
	NeutralUS  int     `yaml:"neutral_us"`
	MinUS      int     `yaml:"min_us"`
	MaxUS      int     `yaml:"max_us"`
}

// IgniterConfig describes one igniter channel's wiring.
type IgniterConfig struct {
	Name            string `yaml:"name"`
	ContinuityLine  string `yaml:"continuity_line"`
	SignalLine      string `yaml:"signal_line"`
}

// AdcChannelConfig describes the affine scaling for one ADC channel,
// per spec.md §4.3.
type AdcChannelConfig struct {
	Channel int     `yaml:"channel"`
	Scale   float64 `yaml:"scale"`
	Offset  float64 `yaml:"offset"`
	Label   string  `yaml:"label"`
}

// AdcConfig describes one 4-channel ADS1015-class ADC.
type AdcConfig struct {
	I2CBus     string             `yaml:"i2c_bus"`
	I2CAddress uint16             `yaml:"i2c_address"`
	Channels   []AdcChannelConfig `yaml:"channels"`
}

// HardwareRegistry is the full ground-station component wiring,
// analogous to the teacher's DroneRegistry but for physical actuators
// and sensors instead of network-addressable drones.
type HardwareRegistry struct {
	Solenoids []SolenoidConfig `yaml:"solenoids"`
	BallValve BallValveConfig  `yaml:"ball_valve"`
	Mav       MavConfig        `yaml:"mav"`
	Igniters  []IgniterConfig  `yaml:"igniters"`
	Adc1      AdcConfig        `yaml:"adc1"`
	Adc2      AdcConfig        `yaml:"adc2"`
}

// LoadHardwareRegistry loads the hardware wiring from a YAML file.
func LoadHardwareRegistry(path string) (*HardwareRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hardware registry: %w", err)
	}

	var registry HardwareRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse hardware registry: %w", err)
	}

	return &registry, nil
}

// DefaultHardwareRegistry returns the wiring described in spec.md §4.3.
// The fill station falls back to it when hardware.yaml cannot be read;
// the flight computer always uses it.
func DefaultHardwareRegistry() *HardwareRegistry {
	return &HardwareRegistry{
		Solenoids: []SolenoidConfig{
			{Name: "sv1", Pull: NormallyClosed, ControlLine: "GPIO17", SignalLine: "GPIO27"},
			{Name: "sv2", Pull: NormallyClosed, ControlLine: "GPIO22", SignalLine: "GPIO23"},
			{Name: "sv3", Pull: NormallyClosed, ControlLine: "GPIO24", SignalLine: "GPIO25"},
			{Name: "sv4", Pull: NormallyOpen, ControlLine: "GPIO5", SignalLine: "GPIO6"},
			{Name: "sv5", Pull: NormallyOpen, ControlLine: "GPIO13", SignalLine: "GPIO19", InvertedRead: true},
		},
		BallValve: BallValveConfig{OnOffLine: "GPIO20", SignalLine: "GPIO21"},
		Mav: MavConfig{
			PWMChannel: "PWM0",
			PeriodUS:   3030, // 330Hz, per the original source's servo driver
			OpenUS:     2000,
			CloseUS:    1000,
			NeutralUS:  1520,
			MinUS:      800,
			MaxUS:      2200,
		},
		Igniters: []IgniterConfig{
			{Name: "igniter1", ContinuityLine: "GPIO16", SignalLine: "GPIO26"},
			{Name: "igniter2", ContinuityLine: "GPIO12", SignalLine: "GPIO7"},
		},
		Adc1: AdcConfig{
			I2CBus: "/dev/i2c-1", I2CAddress: 0x48,
			Channels: []AdcChannelConfig{
				{Channel: 0, Scale: 0.909754, Offset: 5.08926, Label: "PT1500"},
				{Channel: 1, Scale: 1.22124, Offset: 5.37052, Label: "PT2000"},
				{Channel: 2, Scale: 1.22124, Offset: 5.37052, Label: "PT2000"},
				{Channel: 3, Scale: 1.22124, Offset: 5.37052, Label: "PT2000"},
			},
		},
		Adc2: AdcConfig{
			I2CBus: "/dev/i2c-1", I2CAddress: 0x49,
			Channels: []AdcChannelConfig{
				{Channel: 0, Scale: 1.22124, Offset: 5.37052, Label: "PT2000"},
				{Channel: 1, Scale: 1.69661, Offset: 75.37882, Label: "LOADCELL"},
				{Channel: 2, Scale: 1.22124, Offset: 5.37052, Label: "PT2000"},
				{Channel: 3, Scale: 1.22124, Offset: 5.37052, Label: "PT2000"},
			},
		},
	}
}
